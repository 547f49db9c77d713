package transitions

import (
	"sync"
	"time"

	"vet-clinic-console/internal/domain/appointments"
)

// DefaultCooldown absorbe doble click y eventos duplicados del mismo cambio.
const DefaultCooldown = time.Second

type guardEntry struct {
	inFlight bool

	hasLast    bool
	lastStatus appointments.Status
	lastAt     time.Time
}

// Guard lleva, por cita, si hay un commit en curso y el último (cita, estado)
// confirmado con su hora. Descarta, no encola.
type Guard struct {
	mu       sync.Mutex
	entries  map[string]*guardEntry
	cooldown time.Duration
	now      func() time.Time
}

func NewGuard(cooldown time.Duration) *Guard {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Guard{
		entries:  make(map[string]*guardEntry),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Blocked dice si un pedido (id, status) se descartaría ahora.
func (g *Guard) Blocked(appointmentID string, status appointments.Status) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.blockedLocked(appointmentID, status)
}

// Begin marca el commit en curso. false si el pedido se descarta.
func (g *Guard) Begin(appointmentID string, status appointments.Status) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.blockedLocked(appointmentID, status) {
		return false
	}

	e, ok := g.entries[appointmentID]
	if !ok {
		e = &guardEntry{}
		g.entries[appointmentID] = e
	}
	e.inFlight = true
	return true
}

// Done libera la cita. Con committed=true el par queda en cooldown.
func (g *Guard) Done(appointmentID string, status appointments.Status, committed bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[appointmentID]
	if !ok {
		if !committed {
			return
		}
		e = &guardEntry{}
		g.entries[appointmentID] = e
	}

	e.inFlight = false
	if committed {
		e.hasLast = true
		e.lastStatus = status
		e.lastAt = g.now()
	}
	g.pruneLocked(appointmentID, e)
}

// InFlight es para vistas/tests.
func (g *Guard) InFlight(appointmentID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[appointmentID]
	return ok && e.inFlight
}

func (g *Guard) blockedLocked(appointmentID string, status appointments.Status) bool {
	e, ok := g.entries[appointmentID]
	if !ok {
		return false
	}
	if e.inFlight {
		return true
	}
	if e.hasLast && g.now().Sub(e.lastAt) >= g.cooldown {
		e.hasLast = false
	}
	blocked := e.hasLast && e.lastStatus == status
	g.pruneLocked(appointmentID, e)
	return blocked
}

// pruneLocked borra la entrada cuando ya no guarda nada; la clave de cooldown
// expira sola, no hace falta un timer.
func (g *Guard) pruneLocked(appointmentID string, e *guardEntry) {
	if e.hasLast && g.now().Sub(e.lastAt) >= g.cooldown {
		e.hasLast = false
	}
	if !e.inFlight && !e.hasLast {
		delete(g.entries, appointmentID)
	}
}
