package filter

import (
	"github.com/sirupsen/logrus"

	"tableflip.dev/todo/pkg/settings"
)

// Policy resolves the current filter preference from the settings store and
// announces changes to it.
type Policy struct {
	provider settings.Provider
	log      *logrus.Entry

	// fallback is used while no settings store is available.
	fallback Preference

	nextID    int
	listeners map[int]func(Preference)
	conn      int
	connected bool
}

// NewPolicy builds a policy reading from provider. A nil provider behaves like
// settings.Missing.
func NewPolicy(provider settings.Provider, log *logrus.Entry) *Policy {
	if provider == nil {
		provider = settings.Missing{}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	p := &Policy{
		provider: provider,
		log:      log,
		fallback: All,
	}
	if s, ok := provider.Settings(); ok {
		p.conn = s.Connect(settings.Filter, func(string) {
			p.emit(p.Preference())
		})
		p.connected = true
	}
	return p
}

// Preference returns the active preference. Stale or foreign values in the
// settings store are logged and read as All.
func (p *Policy) Preference() Preference {
	s, ok := p.provider.Settings()
	if !ok {
		return p.fallback
	}
	raw := s.String(settings.Filter)
	pref, err := ParsePreference(raw)
	if err != nil {
		p.log.WithError(err).WithField("value", raw).Warn("ignoring stored filter preference")
	}
	return pref
}

// CurrentPredicate returns the predicate for the active preference, nil for
// All.
func (p *Policy) CurrentPredicate() Predicate {
	return PredicateFor(p.Preference())
}

// SetPreference stores pref. Without a settings store the value is kept in
// memory and settings.ErrSchemaMissing is returned; subscribers are notified
// either way.
func (p *Policy) SetPreference(pref Preference) error {
	s, ok := p.provider.Settings()
	if !ok {
		p.fallback = pref
		p.emit(pref)
		return settings.ErrSchemaMissing
	}
	// The settings subscription emits on our behalf.
	return s.Set(settings.Filter, string(pref))
}

// OnChange registers fn to run after the preference changes.
func (p *Policy) OnChange(fn func(Preference)) int {
	if p.listeners == nil {
		p.listeners = make(map[int]func(Preference))
	}
	p.nextID++
	p.listeners[p.nextID] = fn
	return p.nextID
}

// RemoveOnChange drops a subscriber registered with OnChange.
func (p *Policy) RemoveOnChange(id int) {
	delete(p.listeners, id)
}

// Close disconnects the policy from the settings store.
func (p *Policy) Close() {
	if !p.connected {
		return
	}
	if s, ok := p.provider.Settings(); ok {
		s.Disconnect(p.conn)
	}
	p.connected = false
}

func (p *Policy) emit(pref Preference) {
	for _, fn := range p.listeners {
		fn(pref)
	}
}
