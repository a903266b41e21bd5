//go:build !linux

package qemu

import "fmt"

func kvmAvailable() error {
	return fmt.Errorf("hardware acceleration requires Linux")
}
