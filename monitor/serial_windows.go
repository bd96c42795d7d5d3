package monitor

const defaultSerialPortPath = "COM"
