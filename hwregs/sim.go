package hwregs

// SimTimer is a TimerRegisters implementation backed by plain fields.
// It is used by package tests and the halsim command.
//
// EnableErr/DisableErr, when set, are returned by the corresponding calls to
// exercise hardware-failure paths.
type SimTimer struct {
	div     uint32
	reload  uint32
	compare [MaxChannels]uint32
	enabled [MaxChannels]bool

	EnableErr  error
	DisableErr error
}

func NewSimTimer() *SimTimer { return &SimTimer{} }

func (s *SimTimer) SetDivider(div uint32) { s.div = div }
func (s *SimTimer) Divider() uint32       { return s.div }

func (s *SimTimer) SetReload(reload uint32) { s.reload = reload }
func (s *SimTimer) Reload() uint32          { return s.reload }

func (s *SimTimer) SetCompare(ch uint8, val uint32) {
	if ch < MaxChannels {
		s.compare[ch] = val
	}
}

func (s *SimTimer) Compare(ch uint8) uint32 {
	if ch >= MaxChannels {
		return 0
	}
	return s.compare[ch]
}

func (s *SimTimer) EnableOutput(ch uint8) error {
	if s.EnableErr != nil {
		return s.EnableErr
	}
	if ch < MaxChannels {
		s.enabled[ch] = true
	}
	return nil
}

func (s *SimTimer) DisableOutput(ch uint8) error {
	if s.DisableErr != nil {
		return s.DisableErr
	}
	if ch < MaxChannels {
		s.enabled[ch] = false
	}
	return nil
}

// OutputEnabled reports the gate state for tests.
func (s *SimTimer) OutputEnabled(ch uint8) bool {
	return ch < MaxChannels && s.enabled[ch]
}
