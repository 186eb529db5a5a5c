package settings

import "github.com/sirupsen/logrus"

// Provider hands out the settings store when one is available. Consumers must
// pick their own default when ok is false.
type Provider interface {
	Settings() (s *Settings, ok bool)
}

// Static always returns the wrapped store.
type Static struct {
	S *Settings
}

// Settings implements Provider.
func (p Static) Settings() (*Settings, bool) {
	return p.S, p.S != nil
}

// Missing is the provider used when the settings store could not be opened.
type Missing struct{}

// Settings implements Provider.
func (Missing) Settings() (*Settings, bool) {
	return nil, false
}

// Load opens the store at path and degrades to Missing on failure. The error
// is returned alongside so callers can surface a notice.
func Load(path string, log *logrus.Entry) (Provider, error) {
	s, err := Open(path)
	if err != nil {
		if log != nil {
			log.WithError(err).Warn("settings unavailable, preferences will not be saved")
		}
		return Missing{}, err
	}
	return Static{S: s}, nil
}
