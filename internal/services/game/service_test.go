package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	clockMocks "github.com/yamigumo/werewolf-gm/internal/common/clock/mocks"
	uuidMocks "github.com/yamigumo/werewolf-gm/internal/common/uuid/mocks"
	"github.com/yamigumo/werewolf-gm/internal/models"
	"github.com/yamigumo/werewolf-gm/internal/repositories/state"
	"github.com/yamigumo/werewolf-gm/internal/store"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl  *gomock.Controller
	mockClock *clockMocks.MockClock
	mockUUID  *uuidMocks.MockUUID
	service   Service
	ctx       context.Context

	// Test data
	testTime    time.Time
	testGuildID string
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2025, 11, 2, 21, 0, 0, 0, time.UTC)
	s.testGuildID = "42"

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().Return("test-audit-id").AnyTimes()

	repo, err := state.NewFile(&state.FileConfig{
		Path: filepath.Join(s.T().TempDir(), "game_state.json"),
	})
	s.Require().NoError(err)

	st, err := store.New(&store.Config{Repository: repo})
	s.Require().NoError(err)

	svc, err := New(&Config{
		Store:         st,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

// addThree registers the three players used by most scenarios
func (s *GameServiceTestSuite) addThree() {
	for _, p := range []struct {
		id   int64
		name string
	}{{1, "A"}, {2, "B"}, {3, "C"}} {
		_, err := s.service.AddParticipant(s.ctx, &AddParticipantInput{
			GuildID: s.testGuildID,
			UserID:  p.id,
			Name:    p.name,
		})
		s.Require().NoError(err)
	}
}

func (s *GameServiceTestSuite) TestNewValidation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilStore)
}

func (s *GameServiceTestSuite) TestAddParticipantPreservesArrivalOrder() {
	s.addThree()

	out, err := s.service.GetParticipants(s.ctx, &GetParticipantsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Participants, 3)
	s.Equal("A", out.Participants[0].Name)
	s.Equal("B", out.Participants[1].Name)
	s.Equal("C", out.Participants[2].Name)
}

func (s *GameServiceTestSuite) TestAddParticipantDuplicateKeepsFirstName() {
	s.addThree()

	// Second add with a new display name must be a pure no-op
	out, err := s.service.AddParticipant(s.ctx, &AddParticipantInput{
		GuildID: s.testGuildID,
		UserID:  1,
		Name:    "A-renamed",
	})
	s.Require().NoError(err)
	s.True(out.AlreadyRegistered)
	s.Equal("A", out.Participant.Name)

	parts, err := s.service.GetParticipants(s.ctx, &GetParticipantsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Len(parts.Participants, 3)
	s.Equal("A", parts.Participants[0].Name)
}

func (s *GameServiceTestSuite) TestRemoveParticipantAbsentIsNoError() {
	out, err := s.service.RemoveParticipant(s.ctx, &RemoveParticipantInput{
		GuildID: s.testGuildID,
		UserID:  999,
	})
	s.Require().NoError(err)
	s.False(out.Removed)
}

func (s *GameServiceTestSuite) TestAssignRoleLabelsSequential() {
	s.addThree()

	out, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Participants, 3)
	s.Equal("HO1", out.Participants[0].HO)
	s.Equal("HO2", out.Participants[1].HO)
	s.Equal("HO3", out.Participants[2].HO)

	// Re-running with an unchanged list is idempotent in output
	again, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(out.Participants, again.Participants)
}

func (s *GameServiceTestSuite) TestAssignRoleLabelsRenumbersAfterRemoval() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.RemoveParticipant(s.ctx, &RemoveParticipantInput{GuildID: s.testGuildID, UserID: 1})
	s.Require().NoError(err)

	out, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Participants, 2)
	s.Equal("B", out.Participants[0].Name)
	s.Equal("HO1", out.Participants[0].HO)
	s.Equal("HO2", out.Participants[1].HO)
}

func (s *GameServiceTestSuite) TestAssignRoleLabelsEmpty() {
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.ErrorIs(err, ErrNoParticipants)
}

func (s *GameServiceTestSuite) TestSyncParticipantsPreservesLabels() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	// B dropped the role, D picked it up
	out, err := s.service.SyncParticipants(s.ctx, &SyncParticipantsInput{
		GuildID: s.testGuildID,
		Members: []Member{{ID: 1, Name: "A"}, {ID: 3, Name: "C"}, {ID: 4, Name: "D"}},
	})
	s.Require().NoError(err)
	s.Require().Len(out.Participants, 3)
	s.Equal("HO1", out.Participants[0].HO)
	s.Equal("HO3", out.Participants[1].HO)
	s.Equal("", out.Participants[2].HO)
}

func (s *GameServiceTestSuite) TestAdvanceDayIncrementsAndReturnsToDay() {
	s.addThree()

	out, err := s.service.AdvanceDay(s.ctx, &AdvanceDayInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(1, out.Day)

	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	out, err = s.service.AdvanceDay(s.ctx, &AdvanceDayInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(2, out.Day)

	dash, err := s.service.GetDashboard(s.ctx, &GetDashboardInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal(models.PhaseDay, dash.Phase)
}

func (s *GameServiceTestSuite) TestEnterNightInitializesVotesAndOpensVoting() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	out, err := s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal([]string{"HO1", "HO2", "HO3"}, out.Labels)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.True(tally.VotingOpen)
	s.Require().Len(tally.Rows, 3)
	for _, row := range tally.Rows {
		s.Empty(row.Target)
	}
}

func (s *GameServiceTestSuite) TestEnterNightClearsPreviousNight() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.SubmitVote(s.ctx, &SubmitVoteInput{GuildID: s.testGuildID, VoterLabel: "HO1", TargetLabel: "HO2"})
	s.Require().NoError(err)
	_, err = s.service.SubmitNightAction(s.ctx, &SubmitNightActionInput{
		GuildID: s.testGuildID, Ability: models.AbilitySeer, ActorLabel: "HO2", TargetLabel: "HO3",
	})
	s.Require().NoError(err)

	_, err = s.service.AdvanceDay(s.ctx, &AdvanceDayInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	for _, row := range tally.Rows {
		s.Empty(row.Target)
	}

	dash, err := s.service.GetDashboard(s.ctx, &GetDashboardInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Empty(dash.NightActions)
}

func (s *GameServiceTestSuite) TestSubmitVoteOverwrites() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.SubmitVote(s.ctx, &SubmitVoteInput{GuildID: s.testGuildID, VoterLabel: "HO1", TargetLabel: "HO2"})
	s.Require().NoError(err)
	_, err = s.service.SubmitVote(s.ctx, &SubmitVoteInput{GuildID: s.testGuildID, VoterLabel: "HO1", TargetLabel: "HO3"})
	s.Require().NoError(err)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal("HO3", tally.Rows[0].Target)
}

func (s *GameServiceTestSuite) TestSubmitVoteWhileClosed() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.CloseVoting(s.ctx, &CloseVotingInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.SubmitVote(s.ctx, &SubmitVoteInput{GuildID: s.testGuildID, VoterLabel: "HO1", TargetLabel: "HO2"})
	s.ErrorIs(err, ErrVotingClosed)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Empty(tally.Rows[0].Target)
}

func (s *GameServiceTestSuite) TestNightScenario() {
	// Guild 42: A, B, C frozen as HO1..HO3; HO1 votes HO2, voting closed.
	s.addThree()

	assigned, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal("HO1", assigned.Participants[0].HO)
	s.Equal("HO2", assigned.Participants[1].HO)
	s.Equal("HO3", assigned.Participants[2].HO)

	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.SubmitVote(s.ctx, &SubmitVoteInput{GuildID: s.testGuildID, VoterLabel: "HO1", TargetLabel: "HO2"})
	s.Require().NoError(err)

	_, err = s.service.CloseVoting(s.ctx, &CloseVotingInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.False(tally.VotingOpen)
	s.Require().Len(tally.Rows, 3)
	s.Equal(TallyRow{Voter: "HO1", Target: "HO2", TargetName: "B"}, tally.Rows[0])
	s.Equal(TallyRow{Voter: "HO2"}, tally.Rows[1])
	s.Equal(TallyRow{Voter: "HO3"}, tally.Rows[2])
}

func (s *GameServiceTestSuite) TestTallyOrderIsLexicographic() {
	// Eleven participants so HO10 exists; lexicographic order puts HO10
	// before HO2.
	for i := int64(1); i <= 11; i++ {
		_, err := s.service.AddParticipant(s.ctx, &AddParticipantInput{
			GuildID: s.testGuildID,
			UserID:  i,
			Name:    "P",
		})
		s.Require().NoError(err)
	}
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(tally.Rows, 11)
	s.Equal("HO1", tally.Rows[0].Voter)
	s.Equal("HO10", tally.Rows[1].Voter)
	s.Equal("HO11", tally.Rows[2].Voter)
	s.Equal("HO2", tally.Rows[3].Voter)
}

func (s *GameServiceTestSuite) TestTallyToleratesOrphanedVotes() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.SubmitVote(s.ctx, &SubmitVoteInput{GuildID: s.testGuildID, VoterLabel: "HO3", TargetLabel: "HO1"})
	s.Require().NoError(err)

	// C leaves mid-night; their vote entry is orphaned but must not break
	// the tally
	_, err = s.service.RemoveParticipant(s.ctx, &RemoveParticipantInput{GuildID: s.testGuildID, UserID: 3})
	s.Require().NoError(err)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Len(tally.Rows, 2)
}

func (s *GameServiceTestSuite) TestSubmitNightActionOverwrites() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.SubmitNightAction(s.ctx, &SubmitNightActionInput{
		GuildID: s.testGuildID, Ability: models.AbilitySeer, ActorLabel: "HO1", TargetLabel: "HO2",
	})
	s.Require().NoError(err)
	_, err = s.service.SubmitNightAction(s.ctx, &SubmitNightActionInput{
		GuildID: s.testGuildID, Ability: models.AbilitySeer, ActorLabel: "HO1", TargetLabel: "HO3",
	})
	s.Require().NoError(err)

	dash, err := s.service.GetDashboard(s.ctx, &GetDashboardInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Equal("HO3", dash.NightActions[models.AbilitySeer]["HO1"])
}

func (s *GameServiceTestSuite) TestSubmitNightActionUnknownAbility() {
	_, err := s.service.SubmitNightAction(s.ctx, &SubmitNightActionInput{
		GuildID: s.testGuildID, Ability: "jester", ActorLabel: "HO1", TargetLabel: "HO2",
	})
	s.ErrorIs(err, ErrUnknownAbility)
}

func (s *GameServiceTestSuite) TestSpiritReverseIsOneShot() {
	_, err := s.service.UseSpiritReverse(s.ctx, &UseSpiritReverseInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.UseSpiritReverse(s.ctx, &UseSpiritReverseInput{GuildID: s.testGuildID})
	s.ErrorIs(err, ErrReverseAlreadyUsed)

	// Only a full guild reset makes it available again
	_, err = s.service.ResetGuild(s.ctx, &ResetGuildInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	_, err = s.service.UseSpiritReverse(s.ctx, &UseSpiritReverseInput{GuildID: s.testGuildID})
	s.NoError(err)
}

func (s *GameServiceTestSuite) TestPanelRefs() {
	out, err := s.service.GetPanelRef(s.ctx, &GetPanelRefInput{GuildID: s.testGuildID, Kind: models.PanelDashboard})
	s.Require().NoError(err)
	s.Empty(out.MessageID)

	_, err = s.service.SetPanelRef(s.ctx, &SetPanelRefInput{
		GuildID: s.testGuildID, Kind: models.PanelDashboard, MessageID: "msg-1",
	})
	s.Require().NoError(err)

	out, err = s.service.GetPanelRef(s.ctx, &GetPanelRefInput{GuildID: s.testGuildID, Kind: models.PanelDashboard})
	s.Require().NoError(err)
	s.Equal("msg-1", out.MessageID)

	// Other panel kinds are independent
	out, err = s.service.GetPanelRef(s.ctx, &GetPanelRefInput{GuildID: s.testGuildID, Kind: models.PanelTally})
	s.Require().NoError(err)
	s.Empty(out.MessageID)

	_, err = s.service.GetPanelRef(s.ctx, &GetPanelRefInput{GuildID: s.testGuildID, Kind: "bogus"})
	s.ErrorIs(err, ErrUnknownPanel)
}

func (s *GameServiceTestSuite) TestAuditTrailRecordsActions() {
	s.addThree()

	out, err := s.service.GetAuditLog(s.ctx, &GetAuditLogInput{GuildID: s.testGuildID, Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 2)
	s.Equal("test-audit-id", out.Entries[0].ID)
	s.Equal(s.testTime, out.Entries[0].At)
	s.Contains(out.Entries[1].Action, "add participant C")
}

func (s *GameServiceTestSuite) TestResetGuildScoping() {
	s.addThree()
	_, err := s.service.AssignRoleLabels(s.ctx, &AssignRoleLabelsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.EnterNight(s.ctx, &EnterNightInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	_, err = s.service.SetPanelRef(s.ctx, &SetPanelRefInput{
		GuildID: s.testGuildID, Kind: models.PanelTally, MessageID: "msg-9",
	})
	s.Require().NoError(err)

	// Second guild must survive the reset untouched
	_, err = s.service.AddParticipant(s.ctx, &AddParticipantInput{GuildID: "99", UserID: 7, Name: "Z"})
	s.Require().NoError(err)

	_, err = s.service.ResetGuild(s.ctx, &ResetGuildInput{GuildID: s.testGuildID})
	s.Require().NoError(err)

	parts, err := s.service.GetParticipants(s.ctx, &GetParticipantsInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Empty(parts.Participants)

	tally, err := s.service.GetTally(s.ctx, &GetTallyInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Empty(tally.Rows)
	s.Equal(0, tally.Day)

	ref, err := s.service.GetPanelRef(s.ctx, &GetPanelRefInput{GuildID: s.testGuildID, Kind: models.PanelTally})
	s.Require().NoError(err)
	s.Empty(ref.MessageID)

	other, err := s.service.GetParticipants(s.ctx, &GetParticipantsInput{GuildID: "99"})
	s.Require().NoError(err)
	s.Len(other.Participants, 1)
}
