package sampler

// NumNotes is the number of MIDI note numbers the engine addresses, 0..127.
const NumNotes = 128

// NoteHz returns the 12-TET frequency of a MIDI note number, fixed at
// A4 (note 69) = 440 Hz. This is the pure formula used for buffer
// key-range bounds and for simple-mode nearest-pitch distance; it is
// distinct from TuningTable, whose entries may be individually retuned.
func NoteHz(note int) float32 {
	const a4Freq = 440.0
	const a4Note = 69
	exponent := float32(note-a4Note) / 12.0
	return a4Freq * pow2Approx(exponent)
}

// TuningTable holds one frequency per MIDI note, defaulting to 12-TET at
// A4=440Hz. Individual entries may be overridden at any time; an override
// takes effect on the next note event (the table is read fresh by play/stop,
// never cached per-voice beyond the note's own glide state).
type TuningTable struct {
	freq [NumNotes]float32
}

// NewTuningTable creates a tuning table with the default 12-TET tuning.
func NewTuningTable() *TuningTable {
	t := &TuningTable{}
	t.ResetToDefault()
	return t
}

// ResetToDefault restores every entry to 12-TET at A4=440Hz.
func (t *TuningTable) ResetToDefault() {
	for n := 0; n < NumNotes; n++ {
		t.freq[n] = NoteHz(n)
	}
}

// Frequency returns the tuned frequency for a MIDI note number.
// Out-of-range inputs are the caller's responsibility (spec.md §7); this
// indexes the array directly.
func (t *TuningTable) Frequency(note int) float32 {
	return t.freq[note]
}

// SetFrequency overrides a single note's tuned frequency.
func (t *TuningTable) SetFrequency(note int, freq float32) {
	if note < 0 || note >= NumNotes {
		return
	}
	t.freq[note] = freq
}
