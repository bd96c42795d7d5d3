//go:build !linux && !darwin && !windows

package monitor

const defaultSerialPortPath = "/dev/tty"
