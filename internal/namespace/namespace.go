// Package namespace maps the namespace of a dotted API identifier such as
// "sound.channel.setVolume" to the name of the struct that holds its
// function pointers in the bindings file.
package namespace

import (
	"errors"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ErrUnknownNamespace is matched by every UnknownNamespaceError.
var ErrUnknownNamespace = errors.New("unknown namespace")

// UnknownNamespaceError reports an identifier whose namespace has no entry
// in the table. It means the table is out of date for the SDK.
type UnknownNamespaceError struct {
	Identifier string
	Namespace  string
}

func (e *UnknownNamespaceError) Error() string {
	return fmt.Sprintf("unknown namespace %q in %q", e.Namespace, e.Identifier)
}

func (e *UnknownNamespaceError) Is(target error) bool { return target == ErrUnknownNamespace }

// Table maps a namespace token to a container name.
type Table map[string]string

// Default returns a fresh copy of the Playdate C API table.
func Default() Table {
	return Table{
		"system":        "PlaydateSys",
		"sound":         "PlaydateSound",
		"display":       "PlaydateDisplay",
		"file":          "PlaydateFile",
		"graphics":      "PlaydateGraphics",
		"json":          "PlaydateJSON",
		"lua":           "PlaydateLua",
		"sprite":        "PlaydateSprite",
		"video":         "PlaydateVideo",
		"channel":       "PlaydateSoundChannel",
		"lfo":           "PlaydateSoundLFO",
		"source":        "PlaydateSoundSource",
		"sample":        "PlaydateSoundSample",
		"fileplayer":    "PlaydateSoundFileplayer",
		"sampleplayer":  "PlaydateSoundSampleplayer",
		"synth":         "PlaydateSoundSynth",
		"instrument":    "PlaydateSoundInstrument",
		"signal":        "PlaydateSoundSignal",
		"envelope":      "PlaydateSoundEnvelope",
		"effect":        "PlaydateSoundEffect",
		"sequence":      "PlaydateSoundSequence",
		"controlsignal": "PlaydateControlSignal",
		"track":         "PlaydateSoundTrack",
		"twopolefilter": "PlaydateSoundEffectTwopolefilter",
		"onepolefilter": "PlaydateSoundEffectOnepolefilter",
		"bitcrusher":    "PlaydateSoundEffectBitcrusher",
		"ringmodulator": "PlaydateSoundEffectRingmodulator",
		"overdrive":     "PlaydateSoundEffectOverdrive",
		"delayline":     "PlaydateSoundEffectDelayline",
	}
}

// Token returns the namespace token of identifier: the second-to-last
// segment when there are more than two segments, the first otherwise.
// The boolean is false when identifier has no dot.
func Token(identifier string) (string, bool) {
	parts := strings.Split(identifier, ".")
	switch {
	case len(parts) == 1:
		return "", false
	case len(parts) > 2:
		return parts[len(parts)-2], true
	default:
		return parts[0], true
	}
}

// Resolve returns the container name for identifier. Identifiers without a
// dot are returned unchanged.
func (t Table) Resolve(identifier string) (string, error) {
	token, ok := Token(identifier)
	if !ok {
		return identifier, nil
	}
	name, found := t[token]
	if !found || name == "" {
		return "", &UnknownNamespaceError{Identifier: identifier, Namespace: token}
	}
	return name, nil
}

// Merge returns a new table with the entries of other layered over t.
func (t Table) Merge(other Table) Table {
	out := make(Table, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// LoadFile reads a YAML mapping of namespace token to container name.
//
//	sound: PlaydateSound
//	newthing: PlaydateNewThing
func LoadFile(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Table
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse namespace file: %w", err)
	}
	for k, v := range t {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("namespace file: empty entry %q: %q", k, v)
		}
	}
	return t, nil
}
