package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/vlehtola/tahti/arranger"
	"github.com/vlehtola/tahti/cmd"
	"github.com/vlehtola/tahti/version"
)

var (
	listInputs  = flag.Bool("list", false, "list the MIDI input devices and exit")
	midiInput   = flag.String("midi-input", "", "connect MIDI input to matching device name prefix; the default is the first device found")
	trackID     = flag.Int("track", 1, "id of the midi track to record onto")
	outPath     = flag.String("o", "", "file to save the project to; the default is the file the project was loaded from, or take.yml")
	versionFlag = flag.Bool("v", false, "print version and exit")
)

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	broker := arranger.NewBroker()
	midiContext := cmd.NewMidiContext(broker)
	if *listInputs {
		switch midiContext.Support() {
		case arranger.MIDISupportNotCompiled:
			fmt.Println("MIDI support is not compiled in this binary.")
		case arranger.MIDISupportNoDriver:
			fmt.Println("No MIDI driver available.")
		default:
			for input := range midiContext.Inputs {
				fmt.Println(input.String())
			}
		}
		midiContext.Close()
		os.Exit(0)
	}
	defer midiContext.Close()
	recoveryFile := ""
	if configDir, err := os.UserConfigDir(); err == nil {
		recoveryFile = filepath.Join(configDir, "tahti", "tahti-record-recovery")
	}
	model := arranger.NewModel(broker, nil, nil, recoveryFile)
	if a := flag.Args(); len(a) > 0 {
		f, err := os.Open(a[0])
		if err != nil {
			log.Fatalf("could not open %v: %v", a[0], err)
		}
		model.ReadProject(f)
	}
	input, ok := arranger.FindMIDIInputByPrefix(midiContext, *midiInput)
	if !ok {
		log.Fatalf("no MIDI input device found with prefix %q", *midiInput)
	}
	if err := input.Open(); err != nil {
		log.Fatalf("failed to open MIDI input %q: %v", input, err)
	}
	if err := model.StartRecording(*trackID); err != nil {
		log.Fatalf("could not start recording: %v", err)
	}
	fmt.Printf("Recording from %v onto track %d. Press Ctrl-C to finish the take.\n", input, *trackID)
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	recoveryTicker := time.NewTicker(30 * time.Second)
	defer recoveryTicker.Stop()
loop:
	for {
		select {
		case msg := <-broker.ToModel:
			model.ProcessMsg(msg)
		case <-broker.ToUI: // no ui attached
		case <-broker.ToAudio: // no audio engine attached
		case <-recoveryTicker.C:
			model.SaveRecovery()
		case <-sigc:
			break loop
		}
	}
	if !model.FinishRecording() {
		fmt.Println("Nothing recorded.")
		printAlerts(model)
		return
	}
	switch {
	case *outPath != "":
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("could not create %v: %v", *outPath, err)
		}
		model.WriteProject(f)
	case model.FilePath() != "":
		model.SaveProject()
	default:
		f, err := os.Create("take.yml")
		if err != nil {
			log.Fatalf("could not create take.yml: %v", err)
		}
		model.WriteProject(f)
	}
	printAlerts(model)
	fmt.Printf("Saved the take to %v.\n", model.FilePath())
}

func printAlerts(model *arranger.Model) {
	model.Alerts().Iterate(func(index int, alert arranger.Alert) bool {
		fmt.Fprintln(os.Stderr, alert.Message)
		return true
	})
}
