// Package util holds small console helpers shared by the commands.
package util

import (
	"fmt"
	"sync"
	"time"

	"github.com/tj/go-spin"

	"github.com/bootsmith/bootsmith/log"
)

// ProgressSpinner is an indefinite progress indicator for external tool
// steps whose duration is unknown.
type ProgressSpinner struct {
	spinner *spin.Spinner
	message string
	colors  log.ConsoleColorsType
	wg      *sync.WaitGroup

	done     bool
	spinning bool
}

// Start starts the spinner with the given label.
func (ps *ProgressSpinner) Start(messages ...interface{}) {
	ps.message = fmt.Sprint(messages...)
	ps.spinner = spin.New()
	ps.done = false
	ps.spinning = true
	ps.wg = &sync.WaitGroup{}
	ps.wg.Add(1)

	go func() {
		for !ps.done {
			fmt.Printf("\r%s%s %s%s", ps.colors.Yellow(), ps.spinner.Next(), ps.colors.Reset(), ps.message)
			time.Sleep(time.Millisecond * 100)
		}
		fmt.Printf("\r%s     \n", ps.message)
		ps.wg.Done()
		ps.spinning = false
	}()
}

// Do executes workFunc with the given messages as label.
func (ps *ProgressSpinner) Do(workFunc func() error, messages ...interface{}) error {
	ps.Start(messages...)
	err := workFunc()
	ps.stop()
	return err
}

func (ps *ProgressSpinner) stop() {
	if !ps.spinning {
		return
	}
	ps.done = true
	ps.wg.Wait()
}
