// Package mcp exposes the treatment core to MCP clients over stdio. It owns
// the participant registry the surrounding experiment framework would
// otherwise keep, so every tool call works on plain parameters.
package mcp

import (
	"context"
	"fmt"
	"sync"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"shorthorizon/internal/config"
	"shorthorizon/internal/simulation"
	"shorthorizon/internal/treatment"
)

// session is one participant's server-side game state.
type session struct {
	treatment *treatment.Treatment
	ledger    *simulation.Ledger
}

// Server holds the state for the MCP server.
type Server struct {
	cfg      *config.AppConfig
	version  string
	schedule simulation.Schedule

	mtx      sync.Mutex
	sessions map[string]*session
}

// NewServer creates a new MCP server.
func NewServer(cfg *config.AppConfig, version string) *Server {
	return &Server{
		cfg:      cfg,
		version:  version,
		schedule: simulation.Schedule{RoundsPerGame: cfg.RoundsPerGame},
		sessions: make(map[string]*session),
	}
}

// Run serves the tool surface over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	server := sdk.NewServer(&sdk.Implementation{Name: "shorthorizon", Version: s.version}, nil)
	s.registerTools(server)

	log.Info().Int("rounds_per_game", s.cfg.RoundsPerGame).Int("sample_size", s.cfg.SampleSize).Msg("MCP Server starting Stdio loop")
	return server.Run(ctx, &sdk.StdioTransport{})
}

// hydrate returns the participant's session, creating it on first contact.
// A nil idx means a fresh uniform draw; restored reports whether the session
// already existed (in which case idx is ignored).
func (s *Server) hydrate(participantID string, idx *int) (*session, bool, error) {
	if participantID == "" {
		return nil, false, fmt.Errorf("participant_id is required")
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if sess, ok := s.sessions[participantID]; ok {
		return sess, true, nil
	}

	var tr *treatment.Treatment
	if idx != nil {
		var err error
		if tr, err = treatment.New(*idx); err != nil {
			return nil, false, err
		}
	} else {
		tr = treatment.Choose()
	}
	if s.cfg.CostOverride != nil {
		tr.SetUnitCosts(*s.cfg.CostOverride)
	}

	// Prime the demand cache so the first decision round reads a stable batch.
	if _, err := tr.DemandSamples(s.cfg.SampleSize, false); err != nil {
		return nil, false, err
	}

	sess := &session{
		treatment: tr,
		ledger:    simulation.NewLedger(s.schedule.TotalRounds()),
	}
	s.sessions[participantID] = sess
	log.Debug().Str("participant", participantID).Int("index", tr.Index()).Msg("Hydrated participant session")
	return sess, false, nil
}

// lookup returns an existing session or an error naming the missing participant.
func (s *Server) lookup(participantID string) (*session, error) {
	if participantID == "" {
		return nil, fmt.Errorf("participant_id is required")
	}
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sess, ok := s.sessions[participantID]
	if !ok {
		return nil, fmt.Errorf("no session for participant %q; call assign_treatment first", participantID)
	}
	return sess, nil
}

// install registers a reconstructed treatment under the participant,
// replacing any existing session and resetting its history.
func (s *Server) install(participantID string, tr *treatment.Treatment) *session {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	sess := &session{
		treatment: tr,
		ledger:    simulation.NewLedger(s.schedule.TotalRounds()),
	}
	s.sessions[participantID] = sess
	return sess
}
