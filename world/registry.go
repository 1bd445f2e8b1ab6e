package world

import "sort"

// Registry holds the profile of every registered connection and the presence
// of every connection currently inside the shared world. A presence exists for
// an id iff that id entered the world and has not left or disconnected since.
type Registry struct {
	profiles map[string]Profile
	present  map[string]*Presence
	nextSeq  uint64
}

func NewRegistry() *Registry {
	return &Registry{
		profiles: make(map[string]Profile),
		present:  make(map[string]*Presence),
	}
}

// Register creates or overwrites the profile for p.ID.
func (r *Registry) Register(p Profile) {
	r.profiles[p.ID] = p
}

func (r *Registry) Profile(id string) (Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// Enter places a registered connection in the world with InBattle cleared,
// replacing any presence it already had. It reports false when id never
// registered.
func (r *Registry) Enter(id string, pos Position) bool {
	p, ok := r.profiles[id]
	if !ok {
		return false
	}
	r.nextSeq++
	r.present[id] = &Presence{Profile: p, Pos: pos, entered: r.nextSeq}
	return true
}

// Leave removes the presence for id and reports whether one existed.
func (r *Registry) Leave(id string) bool {
	_, ok := r.present[id]
	delete(r.present, id)
	return ok
}

func (r *Registry) Presence(id string) (Presence, bool) {
	p, ok := r.present[id]
	if !ok {
		return Presence{}, false
	}
	return *p, true
}

func (r *Registry) InWorld(id string) bool {
	_, ok := r.present[id]
	return ok
}

func (r *Registry) InBattle(id string) bool {
	p, ok := r.present[id]
	return ok && p.InBattle
}

// SetInBattle updates the flag on an existing presence. It reports false, and
// changes nothing, when id is not in the world.
func (r *Registry) SetInBattle(id string, flag bool) bool {
	p, ok := r.present[id]
	if !ok {
		return false
	}
	p.InBattle = flag
	return true
}

// Remove drops both the presence and the profile for id.
func (r *Registry) Remove(id string) {
	delete(r.present, id)
	delete(r.profiles, id)
}

// Snapshot returns a copy of every presence in world-entry order.
func (r *Registry) Snapshot() []Presence {
	out := make([]Presence, 0, len(r.present))
	for _, p := range r.present {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].entered < out[j].entered })
	return out
}

func (r *Registry) NumRegistered() int { return len(r.profiles) }

func (r *Registry) NumInWorld() int { return len(r.present) }
