package signal

import (
	"encoding/json"

	"github.com/dkeye/available/internal/app/orch"
	"github.com/dkeye/available/internal/core"
	"github.com/dkeye/available/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handleJoin(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", p.Room.Value).Msg("join")
	ctl.Orch.Join(sid, orch.JoinRequest{
		Name:    p.Name.Value,
		Room:    p.Room.Value,
		Profile: p.input(),
	})
}

func (ctl *SignalWSController) handleSetAvailable(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p availablePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad set-available payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.SetAvailable(sid, domain.ParseMinutes(p.Minutes, domain.DefaultAvailableMins), p.input())
}

func (ctl *SignalWSController) handleExtend(sid core.SessionID, conn core.SignalConnection, data []byte) {
	var p extendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad extend payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.Orch.Extend(sid, domain.ParseMinutes(p.Minutes, domain.DefaultExtendMins))
}
