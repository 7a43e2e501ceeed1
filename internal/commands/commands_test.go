package commands

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"promptclub-backend/internal/models"
)

type fakeDelegate struct {
	reply      string
	lastPrompt string
}

func (f *fakeDelegate) Generate(_ context.Context, prompt string, _ string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, nil
}

func noAward(t *testing.T) AwardFunc {
	return func(userID int64, amount int) {
		t.Errorf("unexpected XP award of %d to user ID [%d]", amount, userID)
	}
}

func testUsers() []models.User {
	return []models.User{
		{ID: 1, Name: "PromptBot", Role: models.RoleBot, Xp: 99999, Level: 99},
		{ID: 2, Name: "AdminAlice", Role: models.RoleAdmin, Xp: 1200, Level: 12},
		{ID: 3, Name: "ModMike", Role: models.RoleMod, Xp: 500, Level: 5},
		{ID: 4, Name: "VipVictor", Role: models.RoleVip, Xp: 800, Level: 8},
		{ID: 5, Name: "UserDave", Role: models.RoleMember, Xp: 50, Level: 1},
	}
}

func TestDeterministicCommands(t *testing.T) {
	user := models.User{ID: 5, Name: "UserDave", Xp: 50, Level: 1}

	tests := []struct {
		name          string
		command       string
		expectedReply string
	}{
		{
			name:    "help lists every command",
			command: "help",
			expectedReply: "**🤖 PromptBot Commands:**\n/moeda - Flip a coin\n/dado - Roll a D6\n" +
				"/slot - Play slots (Cost: 0, Win: 50 XP)\n/xp - Check your XP\n/ranking - Top 3 users\n/vip - See VIP perks",
		},
		{
			name:          "help is case-insensitive",
			command:       "HeLp",
			expectedReply: "**🤖 PromptBot Commands:**\n/moeda - Flip a coin\n/dado - Roll a D6\n/slot - Play slots (Cost: 0, Win: 50 XP)\n/xp - Check your XP\n/ranking - Top 3 users\n/vip - See VIP perks",
		},
		{
			name:          "xp reports level and XP without mutation",
			command:       "xp",
			expectedReply: "📊 **UserDave**\nLevel: 1\nXP: 50",
		},
		{
			name:          "vip perks are fixed",
			command:       "vip",
			expectedReply: "⭐ **VIP Benefits**:\n- Unique Badge\n- Access to restricted channels\n- 2x XP Gain on slots\n- Priority Support",
		},
		{
			name:          "unknown command falls back",
			command:       "dance",
			expectedReply: "🤖 Unknown command. Try /help.",
		},
		{
			name:          "empty command falls back",
			command:       "",
			expectedReply: "🤖 Unknown command. Try /help.",
		},
	}

	d := NewDispatcher(&fakeDelegate{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reply := d.Handle(context.Background(), tc.command, nil, user, testUsers(), noAward(t))
			if reply != tc.expectedReply {
				t.Errorf("Handle(%q) = %q, want %q", tc.command, reply, tc.expectedReply)
			}
		})
	}
}

func TestMoeda(t *testing.T) {
	d := newDispatcher(&fakeDelegate{}, rand.NewSource(1))

	seen := make(map[string]int)
	for range 1000 {
		reply := d.Handle(context.Background(), "moeda", nil, models.User{}, nil, noAward(t))
		seen[reply]++
	}

	if len(seen) != 2 {
		t.Fatalf("expected exactly 2 distinct outcomes, got %v", seen)
	}
	for _, reply := range []string{"🪙 **Heads!**", "🪙 **Tails!**"} {
		count := seen[reply]
		if count < 400 || count > 600 {
			t.Errorf("outcome %q occurred %d times out of 1000, expected roughly half", reply, count)
		}
	}
}

func TestDado(t *testing.T) {
	d := newDispatcher(&fakeDelegate{}, rand.NewSource(2))

	counts := make(map[int]int)
	for range 1000 {
		reply := d.Handle(context.Background(), "dado", nil, models.User{}, nil, noAward(t))

		var roll int
		_, err := fmt.Sscanf(reply, "🎲 You rolled a **%d**", &roll)
		if err != nil {
			t.Fatalf("unparseable reply %q: %v", reply, err)
		}
		if roll < 1 || roll > 6 {
			t.Fatalf("roll %d is outside 1..6", roll)
		}
		counts[roll]++
	}

	for face := 1; face <= 6; face++ {
		// 1000/6 ≈ 167 per face
		if counts[face] < 100 || counts[face] > 240 {
			t.Errorf("face %d occurred %d times out of 1000, expected roughly uniform", face, counts[face])
		}
	}
}

func TestSlotResult(t *testing.T) {
	// exhaustive over the 5-symbol alphabet: reward is 50 iff all equal,
	// 10 iff exactly one matching pair, 0 otherwise
	for _, r1 := range slotIcons {
		for _, r2 := range slotIcons {
			for _, r3 := range slotIcons {
				reply, reward := slotResult(r1, r2, r3)

				var expected int
				switch {
				case r1 == r2 && r2 == r3:
					expected = slotJackpotXp
				case r1 == r2 || r2 == r3 || r1 == r3:
					expected = slotPairXp
				}

				if reward != expected {
					t.Errorf("slotResult(%s, %s, %s) reward = %d, want %d", r1, r2, r3, reward, expected)
				}

				prefix := fmt.Sprintf("🎰 | %s | %s | %s |", r1, r2, r3)
				if !strings.HasPrefix(reply, prefix) {
					t.Errorf("slotResult(%s, %s, %s) reply %q missing reel readout", r1, r2, r3, reply)
				}
			}
		}
	}
}

func TestSlotStatistics(t *testing.T) {
	d := newDispatcher(&fakeDelegate{}, rand.NewSource(3))
	user := models.User{ID: 7, Name: "Spinner"}

	const spins = 20000
	var jackpots, pairs int
	award := func(userID int64, amount int) {
		if userID != user.ID {
			t.Fatalf("award went to user ID [%d], want [%d]", userID, user.ID)
		}
		switch amount {
		case slotJackpotXp:
			jackpots++
		case slotPairXp:
			pairs++
		default:
			t.Fatalf("unexpected award amount %d", amount)
		}
	}

	for range spins {
		d.Handle(context.Background(), "slot", nil, user, nil, award)
	}

	// P(jackpot) = 5/125 = 0.04, P(exactly one pair) = 60/125 = 0.48
	jackpotFreq := float64(jackpots) / spins
	if jackpotFreq < 0.03 || jackpotFreq > 0.05 {
		t.Errorf("jackpot frequency %.4f outside expected band around 0.04", jackpotFreq)
	}

	pairFreq := float64(pairs) / spins
	if pairFreq < 0.44 || pairFreq > 0.52 {
		t.Errorf("pair frequency %.4f outside expected band around 0.48", pairFreq)
	}
}

func TestRanking(t *testing.T) {
	d := NewDispatcher(&fakeDelegate{})

	reply := d.Handle(context.Background(), "ranking", nil, models.User{}, testUsers(), noAward(t))

	expected := "🏆 **Leaderboard**\n" +
		"1. PromptBot (Lvl 99)\n" +
		"2. AdminAlice (Lvl 12)\n" +
		"3. VipVictor (Lvl 8)\n"
	if reply != expected {
		t.Errorf("ranking reply = %q, want %q", reply, expected)
	}
}

func TestRankingStableTies(t *testing.T) {
	users := []models.User{
		{ID: 1, Name: "First", Xp: 100, Level: 2},
		{ID: 2, Name: "Second", Xp: 100, Level: 2},
		{ID: 3, Name: "Third", Xp: 100, Level: 2},
		{ID: 4, Name: "Fourth", Xp: 100, Level: 2},
	}

	d := NewDispatcher(&fakeDelegate{})
	reply := d.Handle(context.Background(), "ranking", nil, models.User{}, users, noAward(t))

	expected := "🏆 **Leaderboard**\n1. First (Lvl 2)\n2. Second (Lvl 2)\n3. Third (Lvl 2)\n"
	if reply != expected {
		t.Errorf("tied ranking reply = %q, want %q", reply, expected)
	}
}

func TestAsk(t *testing.T) {
	delegate := &fakeDelegate{reply: "42"}
	d := NewDispatcher(delegate)

	reply := d.Handle(context.Background(), "ask", []string{"meaning", "of", "life"}, models.User{}, nil, noAward(t))
	if reply != "42" {
		t.Errorf("ask reply = %q, want delegate reply %q", reply, "42")
	}
	if delegate.lastPrompt != "meaning of life" {
		t.Errorf("delegate prompt = %q, want joined args", delegate.lastPrompt)
	}
}

func TestAskWithoutArgs(t *testing.T) {
	d := NewDispatcher(&fakeDelegate{reply: "should not be used"})

	reply := d.Handle(context.Background(), "ask", nil, models.User{}, nil, noAward(t))
	if reply != "🤖 Usage: /ask [question]" {
		t.Errorf("ask usage hint = %q", reply)
	}
}
