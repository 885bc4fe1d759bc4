package sampler

// maxSlotEntries bounds how many sample buffers a single MIDI note slot can
// hold. Real instruments rarely layer more than a handful of velocity
// zones per key; a small fixed-capacity inline sequence avoids a heap list
// for the common 1-3 entry case (spec.md §9).
const maxSlotEntries = 8

type keySlot struct {
	entries [maxSlotEntries]*SampleBuffer
	count   int
}

func (s *keySlot) clear() {
	for i := 0; i < s.count; i++ {
		s.entries[i] = nil
	}
	s.count = 0
}

// add appends a buffer, preserving insertion order. Entries beyond
// maxSlotEntries are dropped silently rather than growing — the engine does
// not allocate during keymap construction's hot inner loop.
func (s *keySlot) add(b *SampleBuffer) {
	if s.count >= maxSlotEntries {
		return
	}
	s.entries[s.count] = b
	s.count++
}

// KeyMap maps each of the 128 MIDI note numbers to the sample buffers
// eligible to render it. Mutated only from the control context, only while
// no voice is active (spec.md §4.1, §5).
type KeyMap struct {
	slots   [NumNotes]keySlot
	isValid bool
}

// NewKeyMap returns an empty, invalid keymap.
func NewKeyMap() *KeyMap {
	return &KeyMap{}
}

// IsValid reports whether BuildSimple/BuildRange has populated the map.
func (k *KeyMap) IsValid() bool {
	return k.isValid
}

func (k *KeyMap) invalidate() {
	k.isValid = false
	for i := range k.slots {
		k.slots[i].clear()
	}
}

// BuildSimple implements spec.md §4.1's nearest-by-pitch construction mode.
// For each note n, every buffer whose 12-TET rootNote frequency is nearest
// to tuning[n] is assigned to slot n (ties included).
func (k *KeyMap) BuildSimple(tuning *TuningTable, buffers []*SampleBuffer) {
	k.invalidate()
	for n := 0; n < NumNotes; n++ {
		target := tuning.Frequency(n)
		if len(buffers) == 0 {
			continue
		}

		minDist := float32(-1)
		for _, b := range buffers {
			d := absf(NoteHz(b.RootNote) - target)
			if minDist < 0 || d < minDist {
				minDist = d
			}
		}
		for _, b := range buffers {
			if absf(NoteHz(b.RootNote)-target) == minDist {
				k.slots[n].add(b)
			}
		}
	}
	k.isValid = true
}

// BuildRange implements spec.md §4.1's explicit-range construction mode.
// For each note n, every buffer whose [NOTE_HZ(minNote), NOTE_HZ(maxNote)]
// interval contains tuning[n] is assigned to slot n.
func (k *KeyMap) BuildRange(tuning *TuningTable, buffers []*SampleBuffer) {
	k.invalidate()
	for n := 0; n < NumNotes; n++ {
		target := tuning.Frequency(n)
		for _, b := range buffers {
			lo := NoteHz(b.MinNote)
			hi := NoteHz(b.MaxNote)
			if target >= lo && target <= hi {
				k.slots[n].add(b)
			}
		}
	}
	k.isValid = true
}

// Lookup implements spec.md §4.2: the fast path for a single-entry slot,
// otherwise first-match-in-insertion-order velocity scan. Returns nil if no
// entry matches.
func (k *KeyMap) Lookup(note, velocity int) *SampleBuffer {
	if note < 0 || note >= NumNotes {
		return nil
	}
	slot := &k.slots[note]
	if slot.count == 1 {
		return slot.entries[0]
	}
	for i := 0; i < slot.count; i++ {
		b := slot.entries[i]
		if b.VelocityMatches(velocity) {
			return b
		}
	}
	return nil
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
