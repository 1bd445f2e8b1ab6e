package lobby

import "duel/world"

func (l *Lobby) handleRegister(c Register) {
	l.registry.Register(world.Profile{
		ID:     c.ConnID,
		Name:   c.Name,
		Symbol: c.Symbol,
		Level:  c.Level,
	})
}

func (l *Lobby) handleEnterWorld(c EnterWorld) {
	if !l.registry.Enter(c.ConnID, c.Pos) {
		l.log.Debug().Str("conn", c.ConnID).Msg("enterWorld before register ignored")
		return
	}
	l.broadcastWorld()
}

func (l *Lobby) handleLeaveWorld(c LeaveWorld) {
	l.registry.Leave(c.ConnID)
	l.broadcastWorld()
}

func (l *Lobby) handleSetBattle(c SetBattle) {
	if !l.registry.SetInBattle(c.ConnID, c.InBattle) {
		return
	}
	l.broadcastWorld()
}
