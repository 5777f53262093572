package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cyra-app/cyra/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCycleAlreadyRunning = errors.New("a cycle is already running")
	ErrNoActiveCycle       = errors.New("no active cycle")
	ErrNoDayLoggedYet      = errors.New("no day logged yet")
	ErrCycleNotFound       = errors.New("cycle not found")
	ErrStartCycleFailed    = errors.New("start cycle failed")
	ErrSaveDayFailed       = errors.New("save day failed")
	ErrCloseCycleFailed    = errors.New("close cycle failed")
)

const historyCycleLimit = 3

type TrackerCycleRepository interface {
	Create(cycle *models.Cycle) error
	FindByID(userID uint, cycleID uint) (models.Cycle, error)
	FindByPublicID(userID uint, publicID string) (models.Cycle, error)
	UpdateFields(cycle *models.Cycle, columns ...string) error
	ListClosedByUser(userID uint) ([]models.Cycle, error)
	ListRecentClosed(userID uint, limit int) ([]models.Cycle, error)
}

type TrackerLogRepository interface {
	ListByCycle(cycleID uint) ([]models.DailyLog, error)
	FindByCycleAndDate(cycleID uint, dayStart time.Time, dayEnd time.Time) (models.DailyLog, bool, error)
	Create(entry *models.DailyLog) error
	UpdateFields(entry *models.DailyLog, columns ...string) error
}

type TrackerStateRepository interface {
	FindByUser(userID uint) (models.AppState, bool, error)
	Create(state *models.AppState) error
	UpdateByUser(userID uint, updates map[string]any) error
}

type DayInput struct {
	Mood        string
	Symptoms    []string
	FlowLevel   string
	WaterIntake int
	SelfCare    []string
	Note        string
}

type DayResult struct {
	Log          models.DailyLog
	Warning      *Warning
	Insight      string
	UsedFallback bool
}

type HistoryStats struct {
	CompletedCycles    int        `json:"completed_cycles"`
	AverageCycleLength float64    `json:"average_cycle_length"`
	AverageHealthScore int        `json:"average_health_score"`
	NextPredictedDate  *time.Time `json:"next_predicted_date"`
}

// TrackerService drives the per-user cycle state machine:
// NoActiveCycle --StartCycle--> CycleRunning --CloseCycle--> NoActiveCycle,
// with LogDay valid only while running. Operations invalid in the
// current state are rejected, not ignored.
//
// Daily writes for one user are serialized through a per-user mutex:
// each save reads LastLoggedDate to pick the next date, so concurrent
// submissions would otherwise race.
type TrackerService struct {
	cycles  TrackerCycleRepository
	logs    TrackerLogRepository
	states  TrackerStateRepository
	insight *InsightService
	logger  *zap.SugaredLogger

	locksMu   sync.Mutex
	userLocks map[uint]*sync.Mutex
}

func NewTrackerService(
	cycles TrackerCycleRepository,
	logs TrackerLogRepository,
	states TrackerStateRepository,
	insight *InsightService,
	logger *zap.SugaredLogger,
) *TrackerService {
	return &TrackerService{
		cycles:    cycles,
		logs:      logs,
		states:    states,
		insight:   insight,
		logger:    logger,
		userLocks: make(map[uint]*sync.Mutex),
	}
}

func (service *TrackerService) lockUser(userID uint) func() {
	service.locksMu.Lock()
	lock, ok := service.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		service.userLocks[userID] = lock
	}
	service.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (service *TrackerService) StartCycle(userID uint, startDate time.Time) (models.Cycle, error) {
	defer service.lockUser(userID)()

	state, found, err := service.states.FindByUser(userID)
	if err != nil {
		return models.Cycle{}, ErrStartCycleFailed
	}
	if found && state.IsCycleRunning {
		return models.Cycle{}, ErrCycleAlreadyRunning
	}

	cycle := models.Cycle{
		PublicID:  uuid.NewString(),
		UserID:    userID,
		StartDate: dateOnly(startDate),
		RedFlags:  []string{},
	}
	if err := service.cycles.Create(&cycle); err != nil {
		return models.Cycle{}, ErrStartCycleFailed
	}

	if !found {
		newState := models.AppState{
			UserID:         userID,
			ActiveCycleID:  &cycle.ID,
			IsCycleRunning: true,
		}
		if err := service.states.Create(&newState); err != nil {
			return models.Cycle{}, ErrStartCycleFailed
		}
	} else if err := service.states.UpdateByUser(userID, map[string]any{
		"active_cycle_id":  cycle.ID,
		"is_cycle_running": true,
		"last_logged_date": nil,
	}); err != nil {
		return models.Cycle{}, ErrStartCycleFailed
	}

	return cycle, nil
}

// LogDay records one day of the active cycle: it resolves the entry
// date, evaluates the safety warning against history, asks the insight
// collaborator for text (falling back locally), and upserts the log.
func (service *TrackerService) LogDay(ctx context.Context, userID uint, input DayInput) (DayResult, error) {
	defer service.lockUser(userID)()

	state, cycle, err := service.requireRunningCycle(userID)
	if err != nil {
		return DayResult{}, err
	}

	entryDate := cycle.StartDate
	if state.LastLoggedDate != nil {
		entryDate = dateOnly(*state.LastLoggedDate).AddDate(0, 0, 1)
	}

	todaysFlowIsHeavy := IsHeavyFlow(input.FlowLevel)
	pending := models.DailyLog{
		CycleID:     cycle.ID,
		UserID:      userID,
		Date:        entryDate,
		Mood:        strings.TrimSpace(input.Mood),
		Symptoms:    cleanLabels(input.Symptoms),
		FlowLevel:   strings.TrimSpace(input.FlowLevel),
		WaterIntake: clampNonNegative(input.WaterIntake),
		SelfCare:    cleanLabels(input.SelfCare),
		Note:        strings.TrimSpace(input.Note),
	}

	history := service.loadHistory(userID, cycle.ID, pending)
	warning := EvaluateWarning(pending.Symptoms, todaysFlowIsHeavy, history)

	insightText, usedFallback, err := service.insight.GenerateInsight(ctx, InsightInput{
		Mood:           pending.Mood,
		Symptoms:       pending.Symptoms,
		FlowLevel:      pending.FlowLevel,
		Warning:        warning,
		HistorySummary: historySummaryLine(history),
	})
	if err != nil {
		return DayResult{}, err
	}

	pending.Insight = insightText
	pending.Warnings = []string{}
	if warning != nil {
		pending.Warnings = append(pending.Warnings, warning.Text)
	}

	stored, err := service.upsertDayEntry(pending)
	if err != nil {
		return DayResult{}, ErrSaveDayFailed
	}

	if warning != nil {
		if err := service.appendRedFlag(cycle, warning.Text); err != nil {
			return DayResult{}, ErrSaveDayFailed
		}
	}

	if err := service.states.UpdateByUser(userID, map[string]any{
		"last_logged_date": entryDate,
	}); err != nil {
		return DayResult{}, ErrSaveDayFailed
	}

	return DayResult{
		Log:          stored,
		Warning:      warning,
		Insight:      insightText,
		UsedFallback: usedFallback,
	}, nil
}

// SaveSelfCare merges self-care activities and a note into the most
// recently logged day of the active cycle.
func (service *TrackerService) SaveSelfCare(userID uint, activities []string, note string) (models.DailyLog, error) {
	defer service.lockUser(userID)()

	state, cycle, err := service.requireRunningCycle(userID)
	if err != nil {
		return models.DailyLog{}, err
	}
	if state.LastLoggedDate == nil {
		return models.DailyLog{}, ErrNoDayLoggedYet
	}

	dayStart := dateOnly(*state.LastLoggedDate)
	entry, found, err := service.logs.FindByCycleAndDate(cycle.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil || !found {
		return models.DailyLog{}, ErrNoDayLoggedYet
	}

	entry.SelfCare = cleanLabels(activities)
	columns := []string{"self_care"}
	if strings.TrimSpace(note) != "" {
		entry.Note = strings.TrimSpace(note)
		columns = append(columns, "note")
	}
	if err := service.logs.UpdateFields(&entry, columns...); err != nil {
		return models.DailyLog{}, ErrSaveDayFailed
	}
	return entry, nil
}

// CloseCycle finalizes the active cycle: summarizes its logs, persists
// the derived fields, and resets the running state. A cycle without
// logs cannot be closed.
func (service *TrackerService) CloseCycle(userID uint) (models.Cycle, CycleSummary, error) {
	defer service.lockUser(userID)()

	_, cycle, err := service.requireRunningCycle(userID)
	if err != nil {
		return models.Cycle{}, CycleSummary{}, err
	}

	logs, err := service.logs.ListByCycle(cycle.ID)
	if err != nil {
		return models.Cycle{}, CycleSummary{}, ErrCloseCycleFailed
	}

	summary, err := Summarize(logs, cycle.StartDate)
	if err != nil {
		return models.Cycle{}, CycleSummary{}, err
	}

	endDate := summary.EndDate
	nextPredicted := summary.NextPredictedDate
	cycle.EndDate = &endDate
	cycle.CycleLength = summary.CycleLength
	cycle.CycleHealthScore = summary.CycleHealthScore
	cycle.NextPredictedDate = &nextPredicted
	cycle.TopMood = summary.TopMood
	cycle.TopSymptom = summary.TopSymptom
	cycle.TopFlow = summary.TopFlow
	cycle.FlowSummary = summary.FlowSummary
	cycle.SummaryText = summary.SummaryText
	cycle.RedFlags = mergeRedFlags(cycle.RedFlags, summary.RedFlags)
	if err := service.cycles.UpdateFields(&cycle,
		"end_date", "cycle_length", "cycle_health_score", "next_predicted_date",
		"top_mood", "top_symptom", "top_flow", "flow_summary", "summary_text", "red_flags",
	); err != nil {
		return models.Cycle{}, CycleSummary{}, ErrCloseCycleFailed
	}

	if err := service.states.UpdateByUser(userID, map[string]any{
		"is_cycle_running": false,
		"active_cycle_id":  nil,
	}); err != nil {
		return models.Cycle{}, CycleSummary{}, ErrCloseCycleFailed
	}

	closed, err := service.cycles.FindByID(userID, cycle.ID)
	if err != nil {
		return models.Cycle{}, CycleSummary{}, ErrCloseCycleFailed
	}
	return closed, summary, nil
}

func (service *TrackerService) ActiveCycle(userID uint) (models.Cycle, []models.DailyLog, bool, error) {
	state, found, err := service.states.FindByUser(userID)
	if err != nil {
		return models.Cycle{}, nil, false, err
	}
	if !found || !state.IsCycleRunning || state.ActiveCycleID == nil {
		return models.Cycle{}, nil, false, nil
	}

	cycle, err := service.cycles.FindByID(userID, *state.ActiveCycleID)
	if err != nil {
		return models.Cycle{}, nil, false, err
	}
	logs, err := service.logs.ListByCycle(cycle.ID)
	if err != nil {
		return models.Cycle{}, nil, false, err
	}
	return cycle, logs, true, nil
}

// History returns completed cycles (newest first) with the aggregate
// stats the history dashboard shows.
func (service *TrackerService) History(userID uint) ([]models.Cycle, HistoryStats, error) {
	cycles, err := service.cycles.ListClosedByUser(userID)
	if err != nil {
		return nil, HistoryStats{}, err
	}

	stats := HistoryStats{CompletedCycles: len(cycles)}
	if len(cycles) == 0 {
		return cycles, stats, nil
	}

	lengthTotal := 0
	scoreTotal := 0
	for _, cycle := range cycles {
		lengthTotal += cycle.CycleLength
		scoreTotal += cycle.CycleHealthScore
	}
	stats.AverageCycleLength = math.Round(float64(lengthTotal)/float64(len(cycles))*10) / 10
	stats.AverageHealthScore = int(math.Round(float64(scoreTotal) / float64(len(cycles))))
	stats.NextPredictedDate = cycles[0].NextPredictedDate

	return cycles, stats, nil
}

func (service *TrackerService) CycleLogs(userID uint, publicID string) (models.Cycle, []models.DailyLog, error) {
	cycle, err := service.cycles.FindByPublicID(userID, publicID)
	if err != nil {
		return models.Cycle{}, nil, ErrCycleNotFound
	}
	logs, err := service.logs.ListByCycle(cycle.ID)
	if err != nil {
		return models.Cycle{}, nil, err
	}
	return cycle, logs, nil
}

func (service *TrackerService) requireRunningCycle(userID uint) (models.AppState, models.Cycle, error) {
	state, found, err := service.states.FindByUser(userID)
	if err != nil {
		return models.AppState{}, models.Cycle{}, err
	}
	if !found || !state.IsCycleRunning || state.ActiveCycleID == nil {
		return models.AppState{}, models.Cycle{}, ErrNoActiveCycle
	}

	cycle, err := service.cycles.FindByID(userID, *state.ActiveCycleID)
	if err != nil {
		return models.AppState{}, models.Cycle{}, ErrNoActiveCycle
	}
	return state, cycle, nil
}

// loadHistory assembles the evaluator's view: current-cycle logs (with
// today's pending entry) plus the last closed cycles. Any failure
// degrades to nil history; the request must not fail because the
// historical data was unavailable.
func (service *TrackerService) loadHistory(userID uint, activeCycleID uint, pending models.DailyLog) *CycleHistory {
	currentLogs, err := service.logs.ListByCycle(activeCycleID)
	if err != nil {
		service.warnHistoryUnavailable(err)
		return nil
	}
	currentLogs = replaceOrAppendByDate(currentLogs, pending)

	closed, err := service.cycles.ListRecentClosed(userID, historyCycleLimit)
	if err != nil {
		service.warnHistoryUnavailable(err)
		return nil
	}

	history := &CycleHistory{CurrentLogs: currentLogs}
	for _, cycle := range closed {
		cycleLogs, err := service.logs.ListByCycle(cycle.ID)
		if err != nil {
			service.warnHistoryUnavailable(err)
			return nil
		}
		history.PreviousLogs = append(history.PreviousLogs, cycleLogs)
		for _, logEntry := range cycleLogs {
			if IsHeavyFlow(logEntry.FlowLevel) {
				history.HeavyFlowDays++
			}
		}
	}

	return history
}

func (service *TrackerService) warnHistoryUnavailable(err error) {
	if service.logger != nil {
		service.logger.Warnw("cycle history unavailable, degrading to today-only warning check", "error", err)
	}
}

// upsertDayEntry writes the pending entry by (cycle, date): merge into
// the existing row if the date was already logged, otherwise create it.
func (service *TrackerService) upsertDayEntry(pending models.DailyLog) (models.DailyLog, error) {
	dayStart := dateOnly(pending.Date)
	existing, found, err := service.logs.FindByCycleAndDate(pending.CycleID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return models.DailyLog{}, err
	}

	if !found {
		if err := service.logs.Create(&pending); err != nil {
			return models.DailyLog{}, err
		}
		return pending, nil
	}

	pending.ID = existing.ID
	pending.CreatedAt = existing.CreatedAt
	if err := service.logs.UpdateFields(&pending,
		"mood", "symptoms", "flow_level", "water_intake",
		"self_care", "note", "insight", "warnings",
	); err != nil {
		return models.DailyLog{}, err
	}
	return pending, nil
}

func (service *TrackerService) appendRedFlag(cycle models.Cycle, flag string) error {
	for _, existing := range cycle.RedFlags {
		if existing == flag {
			return nil
		}
	}
	cycle.RedFlags = append(cycle.RedFlags, flag)
	return service.cycles.UpdateFields(&cycle, "red_flags")
}

func historySummaryLine(history *CycleHistory) string {
	if history == nil || len(history.PreviousLogs) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("- Recent completed cycles: ")
	builder.WriteString(strings.TrimSpace(pluralCycles(len(history.PreviousLogs))))
	if history.HeavyFlowDays > 0 {
		builder.WriteString(", with ")
		builder.WriteString(pluralDays(history.HeavyFlowDays))
		builder.WriteString(" of heavy flow overall")
	}
	return builder.String()
}

func pluralCycles(count int) string {
	if count == 1 {
		return "1 cycle"
	}
	return strconv.Itoa(count) + " cycles"
}

func pluralDays(count int) string {
	if count == 1 {
		return "1 day"
	}
	return strconv.Itoa(count) + " days"
}

func replaceOrAppendByDate(logs []models.DailyLog, pending models.DailyLog) []models.DailyLog {
	day := FormatDay(dateOnly(pending.Date))
	for index, logEntry := range logs {
		if FormatDay(dateOnly(logEntry.Date)) == day {
			logs[index] = pending
			return logs
		}
	}
	return append(logs, pending)
}

func cleanLabels(labels []string) []string {
	cleaned := make([]string, 0, len(labels))
	for _, label := range labels {
		trimmed := strings.TrimSpace(label)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}

func clampNonNegative(value int) int {
	if value < 0 {
		return 0
	}
	return value
}

func mergeRedFlags(accumulated []string, summaryFlags []string) []string {
	merged := make([]string, 0, len(accumulated)+len(summaryFlags))
	seen := make(map[string]struct{}, len(accumulated)+len(summaryFlags))
	for _, flag := range append(append([]string{}, accumulated...), summaryFlags...) {
		if _, duplicate := seen[flag]; duplicate {
			continue
		}
		seen[flag] = struct{}{}
		merged = append(merged, flag)
	}
	return merged
}
