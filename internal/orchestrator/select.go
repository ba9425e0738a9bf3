package orchestrator

import (
	"fmt"
	"strings"

	"github.com/coolestowl/slack-ai-council/internal/council"
	"github.com/coolestowl/slack-ai-council/internal/participant"
)

// ActiveParticipants decides which participants a run addresses.
//
// An explicit model= directive wins and is resolved against display
// names. Otherwise, in a thread with prior participant responses only
// those participants remain active, so a conversation continues with
// whoever was already in it. A fresh thread addresses the whole
// registry.
func (o *Orchestrator) ActiveParticipants(snap council.Snapshot, models []string) ([]participant.Participant, error) {
	if len(models) > 0 {
		parts, err := o.registry.ResolveModels(models)
		if err != nil {
			names := o.registry.DisplayNames()
			if len(names) == 0 {
				return nil, council.ErrNoParticipants
			}
			return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
		}
		return parts, nil
	}

	active := o.filter.ParticipatingSet(snap)
	if len(active) == 0 {
		return o.registry.List(), nil
	}

	var parts []participant.Participant
	for _, p := range o.registry.List() {
		if _, ok := active[p.Key()]; ok {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		// Every prior responder has since been deconfigured.
		return o.registry.List(), nil
	}
	return parts, nil
}
