package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/milk9111/movecore/prefabs"
)

func main() {
	scenario := flag.String("scenario", "hop.tengo", "scenario script in prefabs/scripts")
	level := flag.String("level", "", "level name in levels/ (basename, .json optional); defaults to the scenario's level")
	config := flag.String("config", "movement.yaml", "movement prefab in prefabs/")
	verbose := flag.Bool("v", false, "log every tick")
	watch := flag.Bool("watch", false, "rerun when prefabs, scripts or levels change on disk")
	list := flag.Bool("list", false, "list embedded scenarios and exit")
	flag.Parse()

	if *list {
		for _, name := range prefabs.Scripts() {
			fmt.Println(name)
		}
		return
	}

	opts := options{Level: *level, Config: *config, Scenario: *scenario, Verbose: *verbose}
	run := func() {
		sum, err := simulate(opts)
		if err != nil {
			log.Printf("movesim: %s: %v", opts.Scenario, err)
			return
		}
		log.Printf("movesim: %s: %s", opts.Scenario, sum)
	}

	run()
	if !*watch {
		return
	}

	w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"), "levels")
	if err != nil {
		log.Fatalf("movesim: watch: %v", err)
	}
	defer w.Close()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	log.Printf("movesim: watching for changes, ctrl-c to stop")
	for {
		select {
		case change, ok := <-w.Events:
			if !ok {
				return
			}
			log.Printf("movesim: %s %s changed, rerunning", change.Kind, change.Path)
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("movesim: watch error: %v", err)
		case <-stop:
			return
		}
	}
}
