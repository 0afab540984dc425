package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/export"
	"github.com/vlehtola/tahti/version"
)

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	midiOut := flag.Bool("m", false, "Output the project as a .mid standard MIDI file. This is the default when no other output is selected.")
	reportOut := flag.Bool("r", false, "Output a textual .txt report of the project.")
	jsonOut := flag.Bool("j", false, "Output the project as a .json file.")
	yamlOut := flag.Bool("y", false, "Output the project as a .yml file.")
	tmplDir := flag.String("t", "", "When writing reports, use the templates in this directory instead of the standard templates.")
	outPath := flag.String("o", "", "Directory or filename where to write the output. Extension is ignored. Directory and its parents are created if needed. By default, everything is placed in the same directory where the original project file is.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	writeMIDI := *midiOut || (!*jsonOut && !*yamlOut && !*reportOut)
	output := func(filename string, extension string, contents []byte) error {
		if *stdout {
			fmt.Print(string(contents))
			return nil
		}
		_, name := filepath.Split(filename)
		var dir string
		if *outPath != "" {
			// check if it's an already existing directory and the user just forgot trailing slash
			if info, err := os.Stat(*outPath); err == nil && info.IsDir() {
				dir = *outPath
			} else {
				outdir, outname := filepath.Split(*outPath)
				if outdir != "" {
					dir = outdir
				}
				if outname != "" {
					name = outname
				}
			}
		}
		if dir == "" {
			var err error
			dir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("could not get working directory, specify the output directory explicitly: %v", err)
			}
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
		f := filepath.Join(dir, name)
		original, err := os.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				return nil // no need to update
			}
			if !*list && *safe {
				return fmt.Errorf("file %v would be overwritten", f)
			}
		}
		if *list {
			fmt.Println(f)
		} else {
			if dir != "" {
				if err := os.MkdirAll(dir, os.ModePerm); err != nil {
					return fmt.Errorf("could not create output directory %v: %v", dir, err)
				}
			}
			err := os.WriteFile(f, contents, 0644)
			if err != nil {
				return fmt.Errorf("could not write file %v: %v", f, err)
			}
		}
		return nil
	}
	process := func(filename string) error {
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		var project tahti.Project
		if errJSON := json.Unmarshal(inputBytes, &project); errJSON != nil {
			if errYaml := yaml.Unmarshal(inputBytes, &project); errYaml != nil {
				return fmt.Errorf("project could not be unmarshaled as a .json (%v) or .yml (%v)", errJSON, errYaml)
			}
		}
		project.ApplyDefaults()
		project.FixupIDs()
		if err := project.Validate(); err != nil {
			return fmt.Errorf("invalid project: %v", err)
		}
		if writeMIDI {
			var buf bytes.Buffer
			if err := export.WriteSMF(&project, &buf); err != nil {
				return fmt.Errorf("writing the MIDI file failed: %v", err)
			}
			if err := output(filename, ".mid", buf.Bytes()); err != nil {
				return fmt.Errorf("error outputting mid file: %v", err)
			}
		}
		if *reportOut {
			var buf bytes.Buffer
			if err := export.WriteReport(&project, &buf, *tmplDir); err != nil {
				return fmt.Errorf("writing the report failed: %v", err)
			}
			if err := output(filename, ".txt", buf.Bytes()); err != nil {
				return fmt.Errorf("error outputting txt file: %v", err)
			}
		}
		if *jsonOut {
			jsonProject, err := json.Marshal(project)
			if err != nil {
				return fmt.Errorf("could not marshal the project as json file: %v", err)
			}
			if err := output(filename, ".json", jsonProject); err != nil {
				return fmt.Errorf("error outputting json file: %v", err)
			}
		}
		if *yamlOut {
			yamlProject, err := yaml.Marshal(project)
			if err != nil {
				return fmt.Errorf("could not marshal the project as yaml file: %v", err)
			}
			if err := output(filename, ".yml", yamlProject); err != nil {
				return fmt.Errorf("error outputting yaml file: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			jsonfiles, err := filepath.Glob(filepath.Join(param, "*.json"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for json files: %v\n", param, err)
				retval = 1
				continue
			}
			ymlfiles, err := filepath.Glob(filepath.Join(param, "*.yml"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for yml files: %v\n", param, err)
				retval = 1
				continue
			}
			files := append(ymlfiles, jsonfiles...)
			for _, file := range files {
				err := process(file)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			err := process(param)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Tahti project converter. Inputs .yml or .json projects, outputs standard MIDI files and textual reports.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
