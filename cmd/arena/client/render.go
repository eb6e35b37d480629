package client

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/KirkDiggler/not-enough-mana/internal/entities"
	matchorch "github.com/KirkDiggler/not-enough-mana/internal/orchestrators/match"
)

func printf(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func nameOf(m *entities.Match, id string) string {
	if p := m.Player(id); p != nil && p.Name != "" {
		return p.Name
	}
	return id
}

// renderMatch prints the match header, the roster and, for the viewer,
// their hand
func renderMatch(w io.Writer, m *entities.Match, viewer string) error {
	if err := printf(w, "Match %s  code %s  %s  v%d\n", m.ID, m.Code, m.Status, m.Version); err != nil {
		return err
	}

	switch m.Status {
	case entities.MatchStatusWaiting:
		if err := printf(w, "Waiting for %s to start. Theme %s, hand size %d.\n",
			nameOf(m, m.LeaderID), m.Settings.CardTheme, m.Settings.HandSize); err != nil {
			return err
		}
	case entities.MatchStatusPlaying:
		turn := nameOf(m, m.CurrentTurn)
		if m.CurrentTurn == viewer {
			turn = "your"
		} else {
			turn += "'s"
		}
		if err := printf(w, "It is %s turn.\n", turn); err != nil {
			return err
		}
	case entities.MatchStatusFinished:
		winner := "nobody"
		if m.Winner != "" {
			winner = nameOf(m, m.Winner)
		}
		if err := printf(w, "Finished. Winner: %s\n", winner); err != nil {
			return err
		}
	}

	if m.LastAction != nil {
		if err := printf(w, "%s (%s)\n", narrate(m, m.LastAction), humanize.Time(m.LastAction.At)); err != nil {
			return err
		}
	}
	if pc := m.PendingChallenge; pc != nil {
		if err := printf(w, "Challenge pending: %s vs %s (%s)\n",
			nameOf(m, pc.ChallengerID), nameOf(m, pc.OpponentID), pc.Card.Name); err != nil {
			return err
		}
	}

	if err := renderRoster(w, m); err != nil {
		return err
	}

	if p := m.Player(viewer); p != nil && len(p.Cards) > 0 {
		return renderHand(w, p.Cards)
	}
	return nil
}

func renderRoster(w io.Writer, m *entities.Match) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "\nPLAYER\tID\tTEAM\tHEALTH\tMANA\tINTAKE\tSTATUS"); err != nil {
		return err
	}
	for i := range m.Players {
		p := &m.Players[i]
		name := p.Name
		if p.IsLeader {
			name += " *"
		}
		if p.ID == m.CurrentTurn {
			name = "> " + name
		}
		team := p.Team
		if team == "" {
			team = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%d/%d\t%s\t%s\n",
			name, p.ID, team,
			p.Health, p.MaxHealth,
			p.Mana, p.MaxMana,
			strconv.FormatFloat(p.ManaIntake, 'f', 2, 64),
			statusLine(p)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func statusLine(p *entities.Player) string {
	var parts []string
	if !p.IsAlive() {
		parts = append(parts, "dead")
	}
	if p.IsDrunk {
		parts = append(parts, "drunk")
	}
	for _, e := range p.Effects {
		if e.Duration.TurnsLeft > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", e.Type, e.Duration.TurnsLeft))
		}
	}
	if p.ManaShield > 0 {
		parts = append(parts, "mana shield")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func renderHand(w io.Writer, hand []entities.Card) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "\nCARD\tNAME\tCOST\tTARGET\tEFFECT"); err != nil {
		return err
	}
	for _, c := range hand {
		target := "-"
		if c.RequiresTarget {
			target = "yes"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			c.ID, c.Name, c.ManaCost, target, c.Description); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// narrate turns the last action into a sentence
func narrate(m *entities.Match, a *entities.LastAction) string {
	who := nameOf(m, a.PlayerID)
	switch a.Type {
	case entities.ActionPlayCard:
		verb := "played"
		if a.Missed {
			verb = "fumbled"
		}
		if a.TargetID != "" {
			return fmt.Sprintf("%s %s %s on %s", who, verb, a.CardName, nameOf(m, a.TargetID))
		}
		return fmt.Sprintf("%s %s %s", who, verb, a.CardName)
	case entities.ActionOpenChallenge:
		return fmt.Sprintf("%s challenged %s with %s", who, nameOf(m, a.TargetID), a.CardName)
	case entities.ActionResolveChallenge:
		if a.Missed {
			return fmt.Sprintf("%s misreported the %s result", who, a.CardName)
		}
		return fmt.Sprintf("%s settled %s", who, a.CardName)
	case entities.ActionDrink:
		return fmt.Sprintf("%s took a drink", who)
	case entities.ActionJoin:
		return fmt.Sprintf("%s joined", who)
	case entities.ActionLeave:
		return fmt.Sprintf("%s left", who)
	case entities.ActionStart:
		return fmt.Sprintf("%s started the match", who)
	default:
		return fmt.Sprintf("%s: %s", who, a.Type)
	}
}

// renderApplied lists what a resolved card did
func renderApplied(w io.Writer, m *entities.Match, applied []matchorch.AppliedEffect) error {
	for _, a := range applied {
		amount := strconv.FormatFloat(a.Amount, 'f', -1, 64)
		if err := printf(w, "  %s: %s %s\n", nameOf(m, a.PlayerID), a.Kind, amount); err != nil {
			return err
		}
	}
	return nil
}
