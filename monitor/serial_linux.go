package monitor

const defaultSerialPortPath = "/dev/ttyACM"
