package arranger

import (
	"errors"
	"time"
)

type (
	// Broker is the centralized message broker for the arranger. It is used
	// to communicate between the model, the audio engine and the user
	// interface. At the moment, the broker is just many-to-one
	// communication, implemented with one channel for each recipient: MIDI
	// input devices and the audio engine post to ToModel from their own
	// goroutines, while the model posts to ToAudio and ToUI. All sends are
	// non-blocking; a full channel means the recipient is hopelessly behind
	// and dropping the message is the lesser evil.
	Broker struct {
		ToModel chan MsgToModel
		ToAudio chan MsgToAudio
		ToUI    chan MsgToUI
	}

	// MsgToModel is a message sent to the model. The most often sent data
	// (note events while recording) is not boxed to avoid allocations. All
	// the infrequently passed messages can be boxed & cast to any; casting
	// pointer types to any is cheap (does not allocate).
	MsgToModel struct {
		HasNoteEvent bool
		NoteEvent    NoteEvent

		Data any // either Alert or func(), the latter executed in the model goroutine
	}

	// MsgToAudio tells the audio engine that the project changed in a way it
	// cares about: a synth appeared or disappeared, or its settings changed.
	MsgToAudio struct {
		Kind       AudioMessageKind
		TrackID    int
		Instrument string
		Volume     float64
	}

	// MsgToUI pokes the user interface to refresh some part of itself.
	MsgToUI struct {
		Kind UIMessageKind
	}

	AudioMessageKind int
	UIMessageKind    int
)

const (
	AudioMessageKindNone AudioMessageKind = iota
	AudioMessageCreateSynth
	AudioMessageRemoveSynth
	AudioMessageSetInstrument
	AudioMessageSetVolume
)

const (
	UIMessageKindNone UIMessageKind = iota
	UIMessageProjectChanged
	UIMessageHistoryChanged
	UIMessageSelectionChanged
	UIMessageAlertsChanged
)

func NewBroker() *Broker {
	return &Broker{
		ToModel: make(chan MsgToModel, 1024),
		ToAudio: make(chan MsgToAudio, 1024),
		ToUI:    make(chan MsgToUI, 1024),
	}
}

// BrokerAudio is the default AudioInterface: it forwards every call as a
// MsgToAudio for an audio engine goroutine to pick up. The only way it can
// fail is the channel filling up, meaning the engine is not draining it.
type BrokerAudio struct {
	Broker *Broker
}

func (b BrokerAudio) CreateSynth(trackID int, instrument string) error {
	return b.send(MsgToAudio{Kind: AudioMessageCreateSynth, TrackID: trackID, Instrument: instrument})
}

func (b BrokerAudio) RemoveSynth(trackID int) error {
	return b.send(MsgToAudio{Kind: AudioMessageRemoveSynth, TrackID: trackID})
}

func (b BrokerAudio) SetInstrument(trackID int, instrument string) error {
	return b.send(MsgToAudio{Kind: AudioMessageSetInstrument, TrackID: trackID, Instrument: instrument})
}

func (b BrokerAudio) SetVolume(trackID int, volume float64) error {
	return b.send(MsgToAudio{Kind: AudioMessageSetVolume, TrackID: trackID, Volume: volume})
}

func (b BrokerAudio) send(msg MsgToAudio) error {
	if !TrySend(b.Broker.ToAudio, msg) {
		return errors.New("audio message channel is full")
	}
	return nil
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
