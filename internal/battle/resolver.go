package battle

import (
	"fmt"
	"math/rand"

	"github.com/ravenholt/Emberfell_Go/internal/domain"
)

// PlayerStats is the slice of actor state the resolver needs. Battle HP/SP
// live on the session; the actor's stats are read-only inputs.
type PlayerStats struct {
	Name     string
	Strength int
	Vitality int
}

// ResolveExchange runs one full attack exchange against the session in place:
// player attack first, then, only if the monster survives, the monster's
// counter-attack. A monster reduced to 0 HP wins the battle with exactly one
// event; a player reduced to 0 HP loses it. The exchange's events are appended
// to the session log and also returned.
func ResolveExchange(session *domain.BattleSession, player PlayerStats, monster *domain.MonsterTemplate, rng *rand.Rand) ([]domain.BattleEvent, error) {
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrBattleOver, session.Status)
	}

	turn := session.TurnNumber + 1
	var events []domain.BattleEvent

	playerDmg := Damage(player.Strength, monster.Vitality, rng)
	session.MonsterHP -= playerDmg
	if session.MonsterHP <= 0 {
		session.MonsterHP = 0
		session.Status = domain.BattleWon
		events = append(events, domain.BattleEvent{
			Turn:      turn,
			Kind:      domain.EventPlayerAttack,
			Damage:    playerDmg,
			Narrative: fmt.Sprintf("%s strikes %s for %d damage, slaying it", player.Name, monster.Name, playerDmg),
		})
	} else {
		events = append(events, domain.BattleEvent{
			Turn:      turn,
			Kind:      domain.EventPlayerAttack,
			Damage:    playerDmg,
			Narrative: fmt.Sprintf("%s strikes %s for %d damage", player.Name, monster.Name, playerDmg),
		})

		monsterDmg := Damage(monster.Strength, player.Vitality, rng)
		session.PlayerHP -= monsterDmg
		narrative := fmt.Sprintf("%s hits %s for %d damage", monster.Name, player.Name, monsterDmg)
		if session.PlayerHP <= 0 {
			session.PlayerHP = 0
			session.Status = domain.BattleLost
			narrative = fmt.Sprintf("%s hits %s for %d damage, a killing blow", monster.Name, player.Name, monsterDmg)
		}
		events = append(events, domain.BattleEvent{
			Turn:      turn,
			Kind:      domain.EventMonsterAttack,
			Damage:    monsterDmg,
			Narrative: narrative,
		})
	}

	session.TurnNumber = turn
	session.Log = append(session.Log, events...)
	return events, nil
}

// ResolveFlee ends the session with a FLED status. The monster gets no
// parting attack.
func ResolveFlee(session *domain.BattleSession, player PlayerStats, monster *domain.MonsterTemplate) ([]domain.BattleEvent, error) {
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: session is %s", domain.ErrBattleOver, session.Status)
	}

	turn := session.TurnNumber + 1
	event := domain.BattleEvent{
		Turn:      turn,
		Kind:      domain.EventFlee,
		Narrative: fmt.Sprintf("%s flees from %s", player.Name, monster.Name),
	}

	session.Status = domain.BattleFled
	session.TurnNumber = turn
	session.Log = append(session.Log, event)
	return []domain.BattleEvent{event}, nil
}
