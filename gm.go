package tahti

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed gm.yml
var gmYml []byte

// NumGMPrograms is the number of programs in General MIDI level 1.
const NumGMPrograms = 128

type gmFamily struct {
	Family   string
	Programs []string
}

var gmFamilies []gmFamily

// gmPrograms lists the General MIDI program names in program number order.
// Do not modify during runtime.
var gmPrograms []string

func init() {
	if err := yaml.UnmarshalStrict(gmYml, &gmFamilies); err != nil {
		panic(fmt.Errorf("failed to unmarshal the GM program catalog: %w", err))
	}
	for _, f := range gmFamilies {
		gmPrograms = append(gmPrograms, f.Programs...)
	}
	if len(gmPrograms) != NumGMPrograms {
		panic("the GM program catalog should have exactly 128 programs")
	}
}

// GMProgramName returns the General MIDI name of a program number (0-127),
// or "" if the number is out of range.
func GMProgramName(program int) string {
	if program < 0 || program >= len(gmPrograms) {
		return ""
	}
	return gmPrograms[program]
}

// GMProgramNumber returns the program number of a General MIDI instrument
// name, matched case insensitively; or -1 if the name is not in the catalog.
func GMProgramNumber(name string) int {
	for i, p := range gmPrograms {
		if strings.EqualFold(p, name) {
			return i
		}
	}
	return -1
}

// GMProgramFamily returns the name of the instrument family a program number
// belongs to, e.g. "Piano" for programs 0-7.
func GMProgramFamily(program int) string {
	if program < 0 {
		return ""
	}
	for _, f := range gmFamilies {
		if program < len(f.Programs) {
			return f.Family
		}
		program -= len(f.Programs)
	}
	return ""
}

// SearchGMPrograms returns the program names starting with the given prefix,
// case insensitively; all of them when the prefix is empty.
func SearchGMPrograms(prefix string) []string {
	prefix = strings.ToLower(prefix)
	ret := make([]string, 0, len(gmPrograms))
	for _, p := range gmPrograms {
		if strings.HasPrefix(strings.ToLower(p), prefix) {
			ret = append(ret, p)
		}
	}
	return ret
}
