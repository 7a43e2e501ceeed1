// Package commands implements the deterministic slash commands of PromptBot
// plus the /ask passthrough to the AI delegate.
package commands

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"promptclub-backend/internal/bot"
	"promptclub-backend/internal/models"
)

const helpText = `**🤖 PromptBot Commands:**
/moeda - Flip a coin
/dado - Roll a D6
/slot - Play slots (Cost: 0, Win: 50 XP)
/xp - Check your XP
/ranking - Top 3 users
/vip - See VIP perks`

const vipText = "⭐ **VIP Benefits**:\n- Unique Badge\n- Access to restricted channels\n- 2x XP Gain on slots\n- Priority Support"

const unknownText = "🤖 Unknown command. Try /help."

var slotIcons = []string{"🍒", "🍋", "🍇", "💎", "7️⃣"}

const (
	slotJackpotXp = 50
	slotPairXp    = 10
)

// AwardFunc grants XP to a user; the engine wires it to the gamification
// subsystem so the level invariant holds when a command resolves.
type AwardFunc func(userID int64, amount int)

type Dispatcher struct {
	delegate bot.Delegate

	mutex sync.Mutex
	rng   *rand.Rand
}

func NewDispatcher(delegate bot.Delegate) *Dispatcher {
	return newDispatcher(delegate, rand.NewSource(time.Now().UnixNano()))
}

func newDispatcher(delegate bot.Delegate, source rand.Source) *Dispatcher {
	return &Dispatcher{
		delegate: delegate,
		rng:      rand.New(source),
	}
}

func (d *Dispatcher) intn(n int) int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.rng.Intn(n)
}

// Handle resolves a slash command to a single reply string. Command names are
// case-insensitive; unrecognized commands get a fixed fallback.
func (d *Dispatcher) Handle(ctx context.Context, command string, args []string, user models.User, users []models.User, award AwardFunc) string {
	switch strings.ToLower(command) {
	case "help":
		return helpText

	case "moeda":
		if d.intn(2) == 0 {
			return "🪙 **Heads!**"
		}
		return "🪙 **Tails!**"

	case "dado":
		return fmt.Sprintf("🎲 You rolled a **%d**", d.intn(6)+1)

	case "slot":
		r1 := slotIcons[d.intn(len(slotIcons))]
		r2 := slotIcons[d.intn(len(slotIcons))]
		r3 := slotIcons[d.intn(len(slotIcons))]

		reply, reward := slotResult(r1, r2, r3)
		if reward > 0 {
			award(user.ID, reward)
		}
		return reply

	case "xp":
		return fmt.Sprintf("📊 **%s**\nLevel: %d\nXP: %d", user.Name, user.Level, user.Xp)

	case "ranking":
		return ranking(users)

	case "vip":
		return vipText

	case "ask":
		query := strings.Join(args, " ")
		if query == "" {
			return "🤖 Usage: /ask [question]"
		}
		return bot.Reply(ctx, d.delegate, query, "")

	default:
		return unknownText
	}
}

// slotResult scores a spin: all three reels equal is the jackpot, any
// matching pair is the small prize.
func slotResult(r1, r2, r3 string) (string, int) {
	result := fmt.Sprintf("🎰 | %s | %s | %s |", r1, r2, r3)

	if r1 == r2 && r2 == r3 {
		return fmt.Sprintf("%s **JACKPOT!** (+%d XP)", result, slotJackpotXp), slotJackpotXp
	}
	if r1 == r2 || r2 == r3 || r1 == r3 {
		return fmt.Sprintf("%s **Nice match!** (+%d XP)", result, slotPairXp), slotPairXp
	}
	return result + " Better luck next time!", 0
}

// ranking formats the top 3 users by XP. The sort is stable so ties keep
// their original collection order.
func ranking(users []models.User) string {
	sorted := make([]models.User, len(users))
	copy(sorted, users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Xp > sorted[j].Xp
	})

	if len(sorted) > 3 {
		sorted = sorted[:3]
	}

	var sb strings.Builder
	sb.WriteString("🏆 **Leaderboard**\n")
	for i, u := range sorted {
		fmt.Fprintf(&sb, "%d. %s (Lvl %d)\n", i+1, u.Name, u.Level)
	}
	return sb.String()
}
