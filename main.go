/*
Runs one of the demo scenes in a window. The scene and every tunable are read
from a TOML file; -demo overrides the scene.
*/
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-scenes/demos"
	"github.com/spaghettifunk/anima-scenes/engine"
	"github.com/spaghettifunk/anima-scenes/engine/core"
)

const defaultConfigPath = "config.toml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to the TOML configuration")
	demoName := flag.String("demo", "", "demo to run, overrides [application].demo")
	list := flag.Bool("list", false, "list the available demos and exit")
	flag.Parse()

	if *list {
		for _, name := range demos.Names() {
			d, _ := demos.Lookup(name)
			fmt.Printf("%-18s %s\n", d.Name, d.Description)
		}
		return
	}

	if err := run(*configPath, *demoName); err != nil {
		core.LogError(err.Error())
		_ = core.LogShutdown()
		os.Exit(1)
	}
	_ = core.LogShutdown()
}

func loadConfig(path string) (*core.Config, error) {
	config, err := core.LoadConfig(path)
	if err == nil {
		return config, nil
	}
	// running without a config file is fine as long as none was asked for
	if path == defaultConfigPath && errors.Is(err, os.ErrNotExist) {
		core.LogWarn("%s not found, using defaults", path)
		return core.DefaultConfig(), nil
	}
	return nil, err
}

func run(configPath, demoName string) error {
	config, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := core.LogInitialize(config.Log); err != nil {
		return err
	}
	if demoName == "" {
		demoName = config.Application.Demo
	}
	demo, err := demos.Lookup(demoName)
	if err != nil {
		return err
	}
	core.LogInfo("starting demo %s", demo.Name)

	e, err := engine.New(demo.New(config), config)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	go func() {
		// capture sigterm and other system call here
		if _, ok := <-sigCh; ok {
			e.Stop()
		}
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
