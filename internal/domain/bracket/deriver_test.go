package bracket_test

import (
	"fmt"
	"testing"

	bracket "github.com/rotobot/bracketbuilder/internal/domain/bracket"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
	picks "github.com/rotobot/bracketbuilder/internal/domain/picks"
	. "github.com/smartystreets/goconvey/convey"
)

// region builds 8 Round-of-64 games for one region. Team scores descend
// with the game index so machine-mode winners are predictable: the first
// team of game 1 outranks everyone, and within each game team1 outranks
// team2.
func region(name string) []*model.Game {
	prefix := name[:1]
	games := make([]*model.Game, 8)
	for i := 0; i < 8; i++ {
		t1 := team(fmt.Sprintf("%s-a%d", prefix, i+1), fmt.Sprintf("%s A%d", name, i+1), i+1, float64(100-i*2))
		t2 := team(fmt.Sprintf("%s-b%d", prefix, i+1), fmt.Sprintf("%s B%d", name, i+1), 16-i, float64(80-i*2))
		games[i] = &model.Game{
			ID:     fmt.Sprintf("%s-r1-%d", prefix, i+1),
			Round:  bracket.RoundOf64,
			Region: name,
			Team1:  t1,
			Team2:  t2,
		}
	}
	return games
}

func TestDeriveRegion(t *testing.T) {
	Convey("Given a full region in machine mode", t, func() {
		d := bracket.NewDeriver()
		r1 := region("East")
		ledger := picks.NewLedger()

		rb := d.DeriveRegion("East", r1, ledger, model.ViewModeMachine)

		Convey("Then every later round should be fully realized", func() {
			So(rb.R1, ShouldHaveLength, 8)
			So(rb.R2, ShouldHaveLength, 4)
			So(rb.S16, ShouldHaveLength, 2)
			So(rb.E8, ShouldHaveLength, 1)
		})

		Convey("Then synthesized games should carry synthetic identifiers", func() {
			So(rb.R2[0].ID, ShouldEqual, "east-r2-1")
			So(rb.R2[3].ID, ShouldEqual, "east-r2-4")
			So(rb.S16[1].ID, ShouldEqual, "east-s16-2")
			So(rb.E8[0].ID, ShouldEqual, "east-e8-1")
		})

		Convey("Then the strongest team should march through", func() {
			// a1 has the highest score everywhere.
			So(rb.E8[0].Team1.ID, ShouldEqual, "E-a1")
			So(rb.E8[0].RotoBotPick, ShouldEqual, "E-a1")
		})

		Convey("Then synthesized games should be live with empty narrative fields", func() {
			g := rb.R2[0]
			So(g.Live, ShouldBeTrue)
			So(g.Analysis, ShouldBeBlank)
			So(g.ProTeam1, ShouldBeEmpty)
			So(g.ProTeam1, ShouldNotBeNil)
		})

		Convey("Then confidence should stay inside the clamp", func() {
			for _, round := range [][]*model.Game{rb.R2, rb.S16, rb.E8} {
				for _, g := range round {
					So(g.RotoBotConfidence, ShouldBeBetweenOrEqual, 52, 92)
				}
			}
		})

		Convey("And deriving again should produce identical games", func() {
			again := d.DeriveRegion("East", r1, ledger, model.ViewModeMachine)
			So(again, ShouldResemble, rb)
		})
	})

	Convey("Given a region in user mode", t, func() {
		d := bracket.NewDeriver()
		r1 := region("East")

		Convey("When the ledger is empty", func() {
			rb := d.DeriveRegion("East", r1, picks.NewLedger(), model.ViewModeUser)

			Convey("Then only the base round exists", func() {
				So(rb.R1, ShouldHaveLength, 8)
				So(rb.R2, ShouldBeEmpty)
				So(rb.S16, ShouldBeEmpty)
				So(rb.E8, ShouldBeEmpty)
			})
		})

		Convey("When picks decide games 3 and 4 only", func() {
			ledger := picks.NewLedger()
			ledger.MakePick("E-r1-3", "E-a3")
			ledger.MakePick("E-r1-4", "E-b4")

			rb := d.DeriveRegion("East", r1, ledger, model.ViewModeUser)

			Convey("Then the second Round-of-32 slot is realized and keeps its position", func() {
				So(rb.R2, ShouldHaveLength, 1)
				So(rb.R2[0].ID, ShouldEqual, "east-r2-2")
				So(rb.R2[0].Team1.ID, ShouldEqual, "E-a3")
				So(rb.R2[0].Team2.ID, ShouldEqual, "E-b4")
				So(rb.S16, ShouldBeEmpty)
			})
		})

		Convey("When picks decide six of eight base games", func() {
			ledger := picks.NewLedger()
			for i := 1; i <= 6; i++ {
				ledger.MakePick(fmt.Sprintf("E-r1-%d", i), fmt.Sprintf("E-a%d", i))
			}

			rb := d.DeriveRegion("East", r1, ledger, model.ViewModeUser)

			Convey("Then three of four Round-of-32 games exist", func() {
				So(rb.R2, ShouldHaveLength, 3)
				So(rb.R2[0].ID, ShouldEqual, "east-r2-1")
				So(rb.R2[2].ID, ShouldEqual, "east-r2-3")
			})

			Convey("And picking the derived games advances further rounds", func() {
				ledger.MakePick("east-r2-1", "E-a1")
				ledger.MakePick("east-r2-2", "E-a3")

				again := d.DeriveRegion("East", r1, ledger, model.ViewModeUser)
				So(again.S16, ShouldHaveLength, 1)
				So(again.S16[0].ID, ShouldEqual, "east-s16-1")
				So(again.S16[0].Team1.ID, ShouldEqual, "E-a1")
				So(again.S16[0].Team2.ID, ShouldEqual, "E-a3")
			})
		})

		Convey("When a pick is cleared", func() {
			ledger := picks.NewLedger()
			ledger.MakePick("E-r1-1", "E-a1")
			ledger.MakePick("E-r1-2", "E-a2")

			before := d.DeriveRegion("East", r1, ledger, model.ViewModeUser)
			So(before.R2, ShouldHaveLength, 1)

			ledger.Clear()
			after := d.DeriveRegion("East", r1, ledger, model.ViewModeUser)

			Convey("Then the derived games disappear on the next query", func() {
				So(after.R2, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a short region", t, func() {
		d := bracket.NewDeriver()
		r1 := region("East")[:2]

		rb := d.DeriveRegion("East", r1, picks.NewLedger(), model.ViewModeMachine)

		Convey("Then derivation degrades to the pairs that exist", func() {
			So(rb.R1, ShouldHaveLength, 2)
			So(rb.R2, ShouldHaveLength, 1)
			So(rb.S16, ShouldBeEmpty)
			So(rb.E8, ShouldBeEmpty)
		})
	})
}

func TestConfidence(t *testing.T) {
	Convey("Given two evenly matched teams", t, func() {
		d := bracket.NewDeriver()
		a := team("a", "A", 1, 80)
		b := team("b", "B", 2, 80)
		r1 := []*model.Game{
			{ID: "x-r1-1", Round: 1, Region: "East", Team1: a, Team2: b, RotoBotPick: "a"},
			{ID: "x-r1-2", Round: 1, Region: "East", Team1: team("c", "C", 3, 80), Team2: team("d", "D", 4, 80), RotoBotPick: "c"},
		}

		rb := d.DeriveRegion("East", r1, picks.NewLedger(), model.ViewModeMachine)

		Convey("Then confidence should sit at the lower clamp", func() {
			So(rb.R2[0].RotoBotConfidence, ShouldEqual, 52)
		})
	})

	Convey("Given a lopsided matchup", t, func() {
		d := bracket.NewDeriver()
		r1 := []*model.Game{
			{ID: "x-r1-1", Round: 1, Region: "East", Team1: team("a", "A", 1, 99), Team2: team("b", "B", 16, 10), RotoBotPick: "a"},
			{ID: "x-r1-2", Round: 1, Region: "East", Team1: team("c", "C", 8, 20), Team2: team("d", "D", 9, 19), RotoBotPick: "d"},
		}

		rb := d.DeriveRegion("East", r1, picks.NewLedger(), model.ViewModeMachine)

		Convey("Then confidence should cap at the upper clamp", func() {
			// 50 + 0.8*(99-19) = 114, clamped.
			So(rb.R2[0].RotoBotConfidence, ShouldEqual, 92)
		})
	})

	Convey("Given a custom gap factor", t, func() {
		d := bracket.NewDeriver(bracket.WithGapFactor(0.1))
		r1 := []*model.Game{
			{ID: "x-r1-1", Round: 1, Region: "East", Team1: team("a", "A", 1, 90), Team2: team("b", "B", 16, 50), RotoBotPick: "a"},
			{ID: "x-r1-2", Round: 1, Region: "East", Team1: team("c", "C", 8, 60), Team2: team("d", "D", 9, 50), RotoBotPick: "c"},
		}

		rb := d.DeriveRegion("East", r1, picks.NewLedger(), model.ViewModeMachine)

		Convey("Then the factor scales the gap before clamping", func() {
			// 50 + 0.1*(90-60) = 53.
			So(rb.R2[0].RotoBotConfidence, ShouldEqual, 53)
		})
	})
}

func TestNarrativeInjection(t *testing.T) {
	Convey("Given a deriver with a narrative lookup", t, func() {
		cached := model.Narrative{
			Analysis:          "a grinding defensive battle",
			ProTeam1:          []string{"elite rim protection"},
			ProTeam2:          []string{"forces turnovers"},
			RotoBotPick:       "E-a2",
			RotoBotConfidence: 71,
			PickReasoning:     "the numbers lean the other way",
		}
		lookup := func(team1ID, team2ID string) (model.Narrative, bool) {
			if team1ID == "E-a1" && team2ID == "E-a2" {
				return cached, true
			}
			return model.Narrative{}, false
		}
		d := bracket.NewDeriver(bracket.WithNarrativeLookup(lookup))

		r1 := region("East")
		ledger := picks.NewLedger()
		rb := d.DeriveRegion("East", r1, ledger, model.ViewModeMachine)

		Convey("Then the matching synthesized game carries the narrative", func() {
			g := rb.R2[0]
			So(g.Team1.ID, ShouldEqual, "E-a1")
			So(g.Team2.ID, ShouldEqual, "E-a2")
			So(g.Analysis, ShouldEqual, cached.Analysis)
			So(g.PickReasoning, ShouldEqual, cached.PickReasoning)
		})

		Convey("Then the cached pick overrides the score-derived one", func() {
			g := rb.R2[0]
			So(g.RotoBotPick, ShouldEqual, "E-a2")
			So(g.RotoBotConfidence, ShouldEqual, 71)
		})

		Convey("Then non-matching games keep empty narrative fields", func() {
			So(rb.R2[1].Analysis, ShouldBeBlank)
		})

		Convey("And the override feeds the next round in machine mode", func() {
			So(rb.S16[0].Team1.ID, ShouldEqual, "E-a2")
		})
	})

	Convey("Given a cached narrative without pro bullets", t, func() {
		lookup := func(team1ID, team2ID string) (model.Narrative, bool) {
			if team1ID == "E-a1" && team2ID == "E-a2" {
				return model.Narrative{Analysis: "short take"}, true
			}
			return model.Narrative{}, false
		}
		d := bracket.NewDeriver(bracket.WithNarrativeLookup(lookup))

		rb := d.DeriveRegion("East", region("East"), picks.NewLedger(), model.ViewModeMachine)

		Convey("Then the overlay keeps the non-nil empty bullet lists", func() {
			g := rb.R2[0]
			So(g.Analysis, ShouldEqual, "short take")
			So(g.ProTeam1, ShouldNotBeNil)
			So(g.ProTeam1, ShouldBeEmpty)
			So(g.ProTeam2, ShouldNotBeNil)
			So(g.ProTeam2, ShouldBeEmpty)
		})
	})
}

func TestFinalFour(t *testing.T) {
	Convey("Given four regional winners", t, func() {
		d := bracket.NewDeriver()
		winners := []*model.Team{
			team("east-w", "East Winner", 1, 95),
			team("west-w", "West Winner", 1, 90),
			team("south-w", "South Winner", 2, 85),
			team("midwest-w", "Midwest Winner", 3, 99),
		}

		Convey("When deriving in machine mode", func() {
			ffb := d.DeriveFinalFour(winners, picks.NewLedger(), model.ViewModeMachine)

			Convey("Then East plays West and South plays Midwest", func() {
				So(ffb.FF, ShouldHaveLength, 2)
				So(ffb.FF[0].ID, ShouldEqual, "final-four-ff-1")
				So(ffb.FF[0].Team1.ID, ShouldEqual, "east-w")
				So(ffb.FF[0].Team2.ID, ShouldEqual, "west-w")
				So(ffb.FF[1].Team1.ID, ShouldEqual, "south-w")
				So(ffb.FF[1].Team2.ID, ShouldEqual, "midwest-w")
			})

			Convey("Then the championship pairs the semifinal winners", func() {
				So(ffb.Championship, ShouldHaveLength, 1)
				So(ffb.Championship[0].ID, ShouldEqual, "final-four-ch-1")
				So(ffb.Championship[0].Team1.ID, ShouldEqual, "east-w")
				So(ffb.Championship[0].Team2.ID, ShouldEqual, "midwest-w")
			})
		})

		Convey("When deriving in user mode with no picks", func() {
			ffb := d.DeriveFinalFour(winners, picks.NewLedger(), model.ViewModeUser)

			Convey("Then the semifinals exist but the championship does not", func() {
				So(ffb.FF, ShouldHaveLength, 2)
				So(ffb.Championship, ShouldBeEmpty)
			})
		})

		Convey("When only one semifinal is picked in user mode", func() {
			ledger := picks.NewLedger()
			ledger.MakePick("final-four-ff-1", "west-w")

			ffb := d.DeriveFinalFour(winners, ledger, model.ViewModeUser)

			Convey("Then the championship still waits for the other side", func() {
				So(ffb.Championship, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an undecided region", t, func() {
		d := bracket.NewDeriver()
		winners := []*model.Team{
			team("east-w", "East Winner", 1, 95),
			nil,
			team("south-w", "South Winner", 2, 85),
			team("midwest-w", "Midwest Winner", 3, 99),
		}

		ffb := d.DeriveFinalFour(winners, picks.NewLedger(), model.ViewModeMachine)

		Convey("Then only the decided semifinal exists and there is no championship", func() {
			So(ffb.FF, ShouldHaveLength, 1)
			So(ffb.FF[0].ID, ShouldEqual, "final-four-ff-2")
			So(ffb.Championship, ShouldBeEmpty)
		})

		Convey("And the winners list keeps its positional slots", func() {
			So(ffb.Teams, ShouldHaveLength, 4)
			So(ffb.Teams[1], ShouldBeNil)
		})
	})
}

func TestRegionWinner(t *testing.T) {
	Convey("Given a full region", t, func() {
		d := bracket.NewDeriver()
		r1 := region("East")

		Convey("Then machine mode always produces a winner", func() {
			w := d.RegionWinner("East", r1, picks.NewLedger(), model.ViewModeMachine)
			So(w, ShouldNotBeNil)
			So(w.ID, ShouldEqual, "E-a1")
		})

		Convey("Then user mode with a partial ledger produces none", func() {
			ledger := picks.NewLedger()
			ledger.MakePick("E-r1-1", "E-a1")
			w := d.RegionWinner("East", r1, ledger, model.ViewModeUser)
			So(w, ShouldBeNil)
		})
	})
}
