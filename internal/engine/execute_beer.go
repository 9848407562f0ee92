package engine

import (
	"fmt"

	"github.com/talgya/crossroads/internal/ents"
)

// executeBeer dispatches Brew, Drink, and Share.
func (s *Simulation) executeBeer(c Candidate) {
	switch c.Sub {
	case SubBrew:
		s.executeBrew(c)
	case SubDrink:
		s.executeDrink(c)
	case SubShare:
		s.executeShareBeer(c)
	}
}

// BrewBeerPerGrain is how much beer a unit of grain converts into at the
// faction HQ.
const BrewBeerPerGrain = 1

func (s *Simulation) executeBrew(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || string(a.LocationID) != f.HQLocation {
		return
	}
	amount := c.Amount
	if amount == 0 {
		amount = 1
	}
	if f.Resources.Grain < amount {
		return
	}
	f.Resources.Grain -= amount
	f.Resources.Beer += amount * BrewBeerPerGrain

	e := s.Emit(Event{
		Type:    EventResource,
		Subtype: string(SubBrew),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s brews beer for %s", a.Name, f.Name)},
		Outcome: EventOutcome{"grain_spent": amount, "beer_produced": amount * BrewBeerPerGrain},
	})
	e.DramaScore = ScoreDrama(0.05, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}

// DrinkIntoxicationAmount is the intoxication increment a single Drink action
// applies.
const DrinkIntoxicationAmount = 0.3

func (s *Simulation) executeDrink(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || f.Resources.Beer == 0 {
		return
	}
	f.Resources.Beer--
	if a.Intoxication == nil {
		a.Intoxication = &ents.Intoxication{}
	}
	a.Intoxication.ApplyDrink(s.Tick, DrinkIntoxicationAmount)

	e := s.Emit(Event{
		Type:    EventResource,
		Subtype: string(SubDrink),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s drinks %s's beer", a.Name, f.Name)},
		Outcome: EventOutcome{"intoxication_level": a.Intoxication.Level},
	})
	e.DramaScore = ScoreDrama(0.1, a.Membership.Status, 0, false, false, false)
	s.Events[len(s.Events)-1] = e
}

// ShareIntoxicationAmount is the intoxication a Share action applies to the
// recipient; ShareReliabilityBonus is the trust built between sharer and
// recipient.
const (
	ShareIntoxicationAmount = 0.2
	ShareReliabilityBonus   = 0.05
)

func (s *Simulation) executeShareBeer(c Candidate) {
	a, ok := s.Agents[c.Agent]
	if !ok || c.TargetAgent == nil {
		return
	}
	target, ok := s.Agents[*c.TargetAgent]
	if !ok || !target.Alive {
		return
	}
	f := s.FactionOf(c.Agent)
	if f == nil || f.Resources.Beer == 0 {
		return
	}
	f.Resources.Beer--
	if target.Intoxication == nil {
		target.Intoxication = &ents.Intoxication{}
	}
	target.Intoxication.ApplyDrink(s.Tick, ShareIntoxicationAmount)

	rel := s.Relations.Ensure(c.Agent, target.ID)
	rel.Trust.AddReliability(ShareReliabilityBonus)
	rel.LastInteractionTick = s.Tick

	e := s.Emit(Event{
		Type:    EventCooperation,
		Subtype: string(SubShare),
		Primary: s.snapshotActor(c.Agent),
		Context: EventContext{Trigger: fmt.Sprintf("%s shares beer with %s", a.Name, target.Name)},
	})
	second := s.snapshotActor(target.ID)
	e.Secondary = &second
	e.DramaScore = ScoreDrama(0.1, a.Membership.Status, target.Membership.Status, false, false, false)
	s.Events[len(s.Events)-1] = e
}
