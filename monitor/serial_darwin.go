package monitor

const defaultSerialPortPath = "/dev/cu.usbmodem"
