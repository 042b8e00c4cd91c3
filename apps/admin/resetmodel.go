package main

import "fmt"

// resetModel drops the persisted grade model artifact. The API retrains
// from synthetic data the next time a prediction is requested.
func (cli *commandLine) resetModel() error {
	if err := cli.modelStore.Delete(); err != nil {
		return err
	}
	fmt.Println("model artifact removed")
	return nil
}
