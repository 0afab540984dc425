package arranger

import "time"

type (
	// Alert is a message to the user: something failed, or something worth
	// knowing just happened. Alerts live in the model and fade out on their
	// own. A named alert replaces the previous alert with the same name, so
	// a repeating condition does not flood the list.
	Alert struct {
		Name      string
		Priority  AlertPriority
		Message   string
		Duration  time.Duration
		FadeLevel float64
	}

	AlertPriority int

	// Alerts is the alert list view of the model.
	Alerts Model

	AlertYieldFunc func(index int, alert Alert) bool
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

// alertSpeed is the fade in/out speed of an alert, in FadeLevels per second.
const alertSpeed = 4.0

func (m *Model) Alerts() *Alerts { return (*Alerts)(m) }

// Add adds an anonymous alert with the default duration.
func (m *Alerts) Add(message string, priority AlertPriority) {
	m.addAlert(Alert{Message: message, Priority: priority, Duration: defaultAlertDuration})
}

// AddNamed adds a named alert with the default duration, replacing any
// existing alert with the same name.
func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.addAlert(Alert{Name: name, Message: message, Priority: priority, Duration: defaultAlertDuration})
}

func (m *Alerts) AddAlert(a Alert) {
	m.addAlert(a)
}

func (m *Alerts) addAlert(alert Alert) {
	if alert.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == alert.Name {
				alert.FadeLevel = m.alerts[i].FadeLevel
				m.alerts[i] = alert
				TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageAlertsChanged})
				return
			}
		}
	}
	m.alerts = append(m.alerts, alert)
	TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageAlertsChanged})
}

// ClearNamed removes the alert with the given name, if present.
func (m *Alerts) ClearNamed(name string) {
	for i, a := range m.alerts {
		if a.Name == name {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageAlertsChanged})
			return
		}
	}
}

// Iterate loops through the alerts, oldest first.
func (m *Alerts) Iterate(yield AlertYieldFunc) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			break
		}
	}
}

// Update advances the fade animations of the alerts by d and drops the ones
// that have faded out, returning true if anything is still animating.
func (m *Alerts) Update(d time.Duration) (animating bool) {
	delta := float64(d) / float64(time.Second) * alertSpeed
	for i := len(m.alerts) - 1; i >= 0; i-- {
		a := &m.alerts[i]
		if a.Duration >= d {
			a.Duration -= d
			if a.FadeLevel < 1 {
				animating = true
				a.FadeLevel += delta
				if a.FadeLevel > 1 {
					a.FadeLevel = 1
				}
			}
		} else {
			animating = true
			a.Duration = 0
			a.FadeLevel -= delta
			if a.FadeLevel <= 0 {
				m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			}
		}
	}
	return animating
}
