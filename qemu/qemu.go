// Package qemu boots composed images on emulated platforms.
package qemu

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/bootsmith/bootsmith/arch"
	"github.com/bootsmith/bootsmith/constants"
	"github.com/bootsmith/bootsmith/log"
	"github.com/bootsmith/bootsmith/platform"
	"github.com/bootsmith/bootsmith/types"
)

// NotInstalledError reports an absent qemu system binary.
type NotInstalledError struct {
	Binary string
}

func (e *NotInstalledError) Error() string {
	return fmt.Sprintf("%s not found in PATH, install qemu to run this platform", e.Binary)
}

// UnsupportedPlatformError reports a platform qemu cannot emulate.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("platform %s has no qemu machine", e.Platform)
}

type machine struct {
	name string
	cpu  string
}

func (m machine) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("-machine %s", m.name))
	if len(m.cpu) > 0 {
		sb.WriteString(fmt.Sprintf(" -cpu %s", m.cpu))
	}
	return sb.String()
}

type gdb struct {
	port int
	wait bool
}

func (g gdb) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("-gdb tcp::%d", g.port))
	if g.wait {
		sb.WriteString(" -S")
	}
	return sb.String()
}

// Runner boots one composed image on one platform.
type Runner struct {
	platform *platform.Params
	arch     *arch.Arch
	cmd      *exec.Cmd
}

// NewRunner builds a Runner for the platform.
func NewRunner(p *platform.Params, a *arch.Arch) *Runner {
	return &Runner{platform: p, arch: a}
}

// BaseCommand returns the qemu system binary for the guest architecture.
func (r *Runner) BaseCommand() string {
	if r.arch.Bits == 64 {
		return "qemu-system-aarch64"
	}
	return "qemu-system-arm"
}

// Installed reports whether the qemu binary is on PATH.
func (r *Runner) Installed() bool {
	_, err := exec.LookPath(r.BaseCommand())
	return err == nil
}

// Args builds the qemu argument list from the platform record and the run
// config.
func (r *Runner) Args(rconfig *types.RunConfig) []string {
	args := []string{}

	args = append(args, machine{name: r.platform.Machine, cpu: r.platform.CPU}.String())
	args = append(args, fmt.Sprintf("-m %s", rconfig.Memory))
	if rconfig.CPUs > 1 {
		args = append(args, fmt.Sprintf("-smp %d", rconfig.CPUs))
	}
	args = append(args, fmt.Sprintf("-kernel %s", rconfig.Imagename))
	args = append(args, "-nographic")
	if rconfig.GdbPort != 0 {
		args = append(args, gdb{port: rconfig.GdbPort, wait: true}.String())
	}

	// qemu arguments are assembled as flag strings above, so the final
	// list must be tokenized by whitespace.
	return strings.Fields(strings.Join(args, " "))
}

// Command builds the qemu invocation and installs a signal handler that
// tears the guest down with the caller.
func (r *Runner) Command(rconfig *types.RunConfig) *exec.Cmd {
	args := r.Args(rconfig)
	if rconfig.Verbose {
		log.Info(r.BaseCommand() + " " + strings.Join(args, " "))
	}
	r.cmd = exec.Command(r.BaseCommand(), args...)

	c := make(chan os.Signal, 1)
	signal.Notify(c,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func(chan os.Signal) {
		<-c
		r.Stop()
	}(c)

	return r.cmd
}

// Start boots the image and blocks until the guest exits.
func (r *Runner) Start(rconfig *types.RunConfig) error {
	if r.platform.Machine == "" {
		return &UnsupportedPlatformError{Platform: r.platform.Name}
	}
	if !r.Installed() {
		return &NotInstalledError{Binary: r.BaseCommand()}
	}

	if rconfig.Accel {
		// Diagnostic only. ARM guests on other hosts always run
		// under TCG regardless of /dev/kvm.
		if err := kvmAvailable(); err != nil {
			fmt.Printf(constants.WarningColor, "hardware acceleration unavailable, running under TCG\n")
		}
	}

	if r.cmd == nil {
		r.Command(rconfig)
		r.cmd.Stdin = os.Stdin
		r.cmd.Stdout = os.Stdout
		r.cmd.Stderr = os.Stderr
	}

	if rconfig.GdbPort != 0 {
		fmt.Printf("Waiting for gdb connection. Connect with \"(gdb) target remote localhost:%d\"\n", rconfig.GdbPort)
	}

	return r.cmd.Run()
}

// Stop kills a running guest.
func (r *Runner) Stop() {
	if r.cmd != nil && r.cmd.Process != nil {
		if err := r.cmd.Process.Kill(); err != nil {
			log.Error(err)
		}
		r.cmd.Wait()
	}
}

// Version gives the version of the qemu binary serving this runner.
func (r *Runner) Version() (string, error) {
	versionData, err := exec.Command(r.BaseCommand(), "--version").Output()
	if err != nil {
		return "", fmt.Errorf("cannot execute %s: %v", r.BaseCommand(), err)
	}
	return parseVersion(versionData), nil
}

func parseVersion(data []byte) string {
	rgx := regexp.MustCompile(`[0-9]+\.[0-9]+\.[0-9]+`)
	return rgx.FindString(string(data))
}
