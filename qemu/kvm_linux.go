package qemu

import "golang.org/x/sys/unix"

// kvmAvailable returns nil when the current user has read and write access
// to /dev/kvm.
func kvmAvailable() error {
	return unix.Access("/dev/kvm", unix.R_OK|unix.W_OK)
}
