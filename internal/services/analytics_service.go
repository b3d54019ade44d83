package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/LGEM-2025/scoring-service/internal/auth"
	"github.com/LGEM-2025/scoring-service/internal/cache"
	"github.com/LGEM-2025/scoring-service/internal/config"
	"github.com/LGEM-2025/scoring-service/internal/events"
	"github.com/LGEM-2025/scoring-service/internal/grading"
	"github.com/LGEM-2025/scoring-service/internal/models"
	"github.com/LGEM-2025/scoring-service/internal/repositories"
)

const (
	stepsPerTopic     = 3 // lesson, practice, test
	commonMistakesTop = 5
	reportCacheTTL    = 5 * time.Minute
)

// AnalyticsService builds class-level progress reports for the teacher
// dashboard. Read-only over the progress stores; reports are computed on
// demand and cached briefly.
type AnalyticsService interface {
	ClassReport(ctx context.Context, assignmentID string) (*models.ClassAnalyticsReport, error)
}

type analyticsService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	cache     cache.CacheService
	roster    auth.RosterService
	publisher events.EventPublisher
	cfg       *config.Config
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger, cacheService cache.CacheService, roster auth.RosterService, publisher events.EventPublisher, cfg *config.Config) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		logger:    logger,
		cache:     cacheService,
		roster:    roster,
		publisher: publisher,
		cfg:       cfg,
	}
}

// ===== REPORT GENERATION =====

func (s *analyticsService) ClassReport(ctx context.Context, assignmentID string) (*models.ClassAnalyticsReport, error) {
	cacheKey := fmt.Sprintf("analytics:assignment:%s", assignmentID)

	var cached models.ClassAnalyticsReport
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	s.logger.Info("Generating class analytics report", "assignment_id", assignmentID)

	assignment, err := s.repo.Progress().GetAssignment(ctx, nil, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("%w: failed to get assignment: %v", ErrUpstreamUnavailable, err)
	}

	var topicIDs []string
	if len(assignment.TopicIDs) > 0 {
		if err := json.Unmarshal(assignment.TopicIDs, &topicIDs); err != nil {
			return nil, fmt.Errorf("failed to decode assignment topic list: %w", err)
		}
	}

	// The four sources are independent; fetch them concurrently and
	// merge only once all reads have finished.
	var (
		wg          sync.WaitGroup
		topics      []*models.GrammarTopic
		studentIDs  []string
		stepRows    []*models.StepProgress
		sessions    []*models.LegacySession
		errTopics   error
		errStudents error
		errSteps    error
		errSessions error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		topics, errTopics = s.repo.Progress().GetTopics(ctx, nil, topicIDs)
	}()
	go func() {
		defer wg.Done()
		studentIDs, errStudents = s.repo.Progress().GetEnrolledStudents(ctx, nil, assignment.ClassID)
	}()
	go func() {
		defer wg.Done()
		stepRows, errSteps = s.repo.Progress().GetStepProgress(ctx, nil, assignmentID)
	}()
	go func() {
		defer wg.Done()
		sessions, errSessions = s.repo.Progress().GetLegacySessions(ctx, nil, assignmentID)
	}()
	wg.Wait()

	for _, fetchErr := range []error{errTopics, errStudents, errSteps, errSessions} {
		if fetchErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, fetchErr)
		}
	}

	names := s.roster.DisplayNames(studentIDs)
	topicNames := make(map[string]*models.GrammarTopic, len(topics))
	for _, topic := range topics {
		topicNames[topic.ID] = topic
	}

	report := &models.ClassAnalyticsReport{
		AssignmentID:    assignment.ID,
		AssignmentTitle: assignment.Title,
		TotalStudents:   len(studentIDs),
		Topics:          buildTopicInfo(topicIDs, topicNames),
		GeneratedAt:     time.Now(),
	}

	students := s.buildStudentSummaries(studentIDs, topicIDs, topicNames, names, stepRows, sessions)
	report.Students = students
	report.CompletionStats = buildCompletionStats(stepRows, students)
	report.AccuracyStats = s.buildAccuracyStats(students)
	report.EngagementStats = buildEngagementStats(students, stepRows, sessions, len(topicIDs))

	// Mining failures degrade to whatever was readable, never fail the
	// whole report; the partial error is passed up alongside it.
	mistakes, mineErr := s.mineCommonMistakes(sessions)
	if mineErr != nil {
		s.logger.Warn("Common mistake mining degraded",
			"assignment_id", assignmentID,
			"error", mineErr)
	}
	report.CommonMistakes = mistakes

	// A degraded report never enters the cache; the next read retries
	// the mining.
	if mineErr == nil {
		if err := s.cache.Set(ctx, cacheKey, report, reportCacheTTL); err != nil {
			s.logger.Warn("Failed to cache analytics report", "assignment_id", assignmentID, "error", err)
		}
	}

	event := events.NewReportGeneratedEvent(assignment.ID, assignment.ClassID, len(studentIDs), report.GeneratedAt)
	if err := s.publisher.PublishScoringEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish report generated event",
			"assignment_id", assignmentID,
			"error", err)
	}

	s.logger.Info("Class analytics report generated",
		"assignment_id", assignmentID,
		"total_students", len(studentIDs),
		"topics", len(topicIDs))

	return report, mineErr
}

// ===== STUDENT MERGING =====

// legacyTotals is the per-student roll-up of legacy sessions, used only
// to fill fields the step-progress rows left at zero.
type legacyTotals struct {
	gems         int
	seconds      int
	lastActivity *time.Time
	accuracies   []float64
}

func (s *analyticsService) buildStudentSummaries(studentIDs, topicIDs []string, topicNames map[string]*models.GrammarTopic, names map[string]string, stepRows []*models.StepProgress, sessions []*models.LegacySession) []models.StudentProgressSummary {
	stepsByStudent := make(map[string]map[string]*models.StepProgress)
	for _, row := range stepRows {
		if stepsByStudent[row.StudentID] == nil {
			stepsByStudent[row.StudentID] = make(map[string]*models.StepProgress)
		}
		stepsByStudent[row.StudentID][row.TopicID] = row
	}

	legacyByStudent := make(map[string]*legacyTotals)
	for _, session := range sessions {
		totals := legacyByStudent[session.StudentID]
		if totals == nil {
			totals = &legacyTotals{}
			legacyByStudent[session.StudentID] = totals
		}
		totals.gems += session.GemsEarned
		totals.seconds += session.DurationSeconds
		if session.AccuracyPercentage > 0 {
			totals.accuracies = append(totals.accuracies, session.AccuracyPercentage)
		}
		if session.EndedAt != nil && (totals.lastActivity == nil || session.EndedAt.After(*totals.lastActivity)) {
			totals.lastActivity = session.EndedAt
		}
	}

	sorted := make([]string, len(studentIDs))
	copy(sorted, studentIDs)
	sort.Strings(sorted)

	summaries := make([]models.StudentProgressSummary, 0, len(sorted))
	for _, studentID := range sorted {
		summaries = append(summaries, s.buildStudentSummary(studentID, topicIDs, topicNames, names[studentID], stepsByStudent[studentID], legacyByStudent[studentID]))
	}
	return summaries
}

func (s *analyticsService) buildStudentSummary(studentID string, topicIDs []string, topicNames map[string]*models.GrammarTopic, name string, steps map[string]*models.StepProgress, legacy *legacyTotals) models.StudentProgressSummary {
	summary := models.StudentProgressSummary{
		StudentID:   studentID,
		StudentName: name,
		Topics:      make([]models.TopicStepProgress, 0, len(topicIDs)),
	}

	completedSteps := 0
	var accuracySamples []float64
	var lastActivity *time.Time

	for _, topicID := range topicIDs {
		topic := models.TopicStepProgress{TopicID: topicID}
		if info := topicNames[topicID]; info != nil {
			topic.TopicName = info.Name
		}

		row := steps[topicID]
		if row != nil {
			topic.LessonCompleted = row.LessonCompleted
			topic.PracticeCompleted = row.PracticeCompleted
			topic.TestCompleted = row.TestCompleted
			topic.BestPracticeAccuracy = row.BestPracticeAccuracy
			topic.BestTestAccuracy = row.BestTestAccuracy
			topic.GemsEarned = row.GemsEarned

			completedSteps += row.CompletedSteps()
			summary.TotalGemsEarned += row.GemsEarned
			summary.TotalTimeSpent += row.TimeSpentSeconds
			if row.BestPracticeAccuracy > 0 {
				accuracySamples = append(accuracySamples, row.BestPracticeAccuracy)
			}
			if row.BestTestAccuracy > 0 {
				accuracySamples = append(accuracySamples, row.BestTestAccuracy)
			}
			if row.LastActivityAt != nil && (lastActivity == nil || row.LastActivityAt.After(*lastActivity)) {
				lastActivity = row.LastActivityAt
			}
		}
		topic.TopicMasteryLevel = topicMastery(row)
		summary.Topics = append(summary.Topics, topic)
	}

	// Legacy totals fill only the fields step progress left at zero.
	if legacy != nil {
		if summary.TotalGemsEarned == 0 {
			summary.TotalGemsEarned = legacy.gems
		}
		if summary.TotalTimeSpent == 0 {
			summary.TotalTimeSpent = legacy.seconds
		}
		if lastActivity == nil {
			lastActivity = legacy.lastActivity
		}
		if len(accuracySamples) == 0 {
			accuracySamples = legacy.accuracies
		}
	}

	summary.LastActivity = lastActivity
	if len(topicIDs) > 0 {
		summary.OverallCompletion = roundPercent(float64(completedSteps) / float64(len(topicIDs)*stepsPerTopic) * 100)
	}
	summary.AverageAccuracy = roundPercent(mean(accuracySamples))
	summary.MasteryLevel = studentMastery(summary.Topics)

	return summary
}

// topicMastery classifies a single topic's step row on the ladder.
func topicMastery(row *models.StepProgress) models.MasteryLevel {
	if row == nil {
		return models.MasteryNotStarted
	}
	switch {
	case row.LessonCompleted && row.PracticeCompleted && row.TestCompleted:
		return models.MasteryMastered
	case row.TestCompleted || row.TestAttempts > 0:
		return models.MasteryTesting
	case row.PracticeCompleted || row.PracticeAttempts > 0:
		return models.MasteryPracticing
	case row.LessonCompleted:
		return models.MasteryInProgress
	default:
		return models.MasteryNotStarted
	}
}

// studentMastery is mastered only when every assigned topic is mastered;
// otherwise it is the highest rung any topic reached.
func studentMastery(topics []models.TopicStepProgress) models.MasteryLevel {
	if len(topics) == 0 {
		return models.MasteryNotStarted
	}

	allMastered := true
	highest := models.MasteryNotStarted
	for _, topic := range topics {
		level := topic.TopicMasteryLevel
		if level != models.MasteryMastered {
			allMastered = false
		}
		if masteryRank(level) > masteryRank(highest) {
			highest = level
		}
	}
	if allMastered {
		return models.MasteryMastered
	}
	if highest == models.MasteryMastered {
		// Some topics done, others not: the student is still testing.
		return models.MasteryTesting
	}
	return highest
}

func masteryRank(level models.MasteryLevel) int {
	switch level {
	case models.MasteryMastered:
		return 4
	case models.MasteryTesting:
		return 3
	case models.MasteryPracticing:
		return 2
	case models.MasteryInProgress:
		return 1
	default:
		return 0
	}
}

// ===== CLASS ROLL-UPS =====

func buildTopicInfo(topicIDs []string, topicNames map[string]*models.GrammarTopic) []models.TopicInfo {
	infos := make([]models.TopicInfo, 0, len(topicIDs))
	for _, id := range topicIDs {
		info := models.TopicInfo{TopicID: id}
		if topic := topicNames[id]; topic != nil {
			info.Name = topic.Name
			info.Category = topic.Category
		}
		infos = append(infos, info)
	}
	return infos
}

func buildCompletionStats(stepRows []*models.StepProgress, students []models.StudentProgressSummary) models.CompletionStats {
	var stats models.CompletionStats
	for _, row := range stepRows {
		if row.LessonCompleted {
			stats.LessonsCompleted++
		}
		if row.PracticeCompleted {
			stats.PracticeCompleted++
		}
		if row.TestCompleted {
			stats.TestsCompleted++
		}
	}
	for _, student := range students {
		if student.MasteryLevel == models.MasteryMastered {
			stats.FullyMastered++
		}
	}
	return stats
}

func (s *analyticsService) buildAccuracyStats(students []models.StudentProgressSummary) models.AccuracyStats {
	stats := models.AccuracyStats{NeedsAttention: []string{}}

	var practiceSamples, testSamples []float64
	bestAverage := 0.0
	for _, student := range students {
		for _, topic := range student.Topics {
			if topic.BestPracticeAccuracy > 0 {
				practiceSamples = append(practiceSamples, topic.BestPracticeAccuracy)
			}
			if topic.BestTestAccuracy > 0 {
				testSamples = append(testSamples, topic.BestTestAccuracy)
			}
		}

		if student.AverageAccuracy > 0 && student.AverageAccuracy > bestAverage {
			bestAverage = student.AverageAccuracy
			stats.HighestPerformer = student.StudentName
		}
		if student.AverageAccuracy > 0 && student.AverageAccuracy < s.cfg.NeedsAttentionThreshold {
			stats.NeedsAttention = append(stats.NeedsAttention, student.StudentName)
		}
	}

	stats.AveragePracticeAccuracy = roundPercent(mean(practiceSamples))
	stats.AverageTestAccuracy = roundPercent(mean(testSamples))
	return stats
}

func buildEngagementStats(students []models.StudentProgressSummary, stepRows []*models.StepProgress, sessions []*models.LegacySession, topicCount int) models.EngagementStats {
	stats := models.EngagementStats{TotalSessions: len(sessions)}

	totalSeconds := 0
	for _, student := range students {
		totalSeconds += student.TotalTimeSpent
		stats.TotalGemsAwarded += student.TotalGemsEarned
	}
	stats.TotalTimeMinutes = totalSeconds / 60

	totalAttempts := 0
	for _, row := range stepRows {
		totalAttempts += row.PracticeAttempts + row.TestAttempts
	}
	if cells := len(students) * topicCount; cells > 0 {
		stats.AverageAttemptsPerTopic = roundPercent(float64(totalAttempts) / float64(cells))
	}

	return stats
}

// ===== COMMON MISTAKE MINING =====

// mineCommonMistakes scans the legacy sessions' free-text question logs
// and ranks questions by raw incorrect count. Unreadable logs are
// skipped; the returned error reports how many were dropped.
func (s *analyticsService) mineCommonMistakes(sessions []*models.LegacySession) ([]models.CommonMistake, error) {
	type bucket struct {
		question  string
		qType     string
		incorrect int
		total     int
	}

	buckets := make(map[string]*bucket)
	unreadable := 0

	for _, session := range sessions {
		if len(session.QuestionLog) == 0 {
			continue
		}
		var entries []models.QuestionAttemptLog
		if err := json.Unmarshal(session.QuestionLog, &entries); err != nil {
			unreadable++
			continue
		}
		for _, entry := range entries {
			key := grading.NormalizeText(entry.QuestionText)
			if key == "" {
				continue
			}
			b := buckets[key]
			if b == nil {
				b = &bucket{question: entry.QuestionText, qType: entry.QuestionType}
				buckets[key] = b
			}
			b.total++
			if !entry.WasCorrect {
				b.incorrect++
			}
		}
	}

	mistakes := make([]models.CommonMistake, 0, len(buckets))
	for _, b := range buckets {
		if b.incorrect == 0 {
			continue
		}
		mistakes = append(mistakes, models.CommonMistake{
			Question:       b.question,
			Type:           b.qType,
			IncorrectCount: b.incorrect,
			TotalAttempts:  b.total,
			FailRate:       roundPercent(float64(b.incorrect) / float64(b.total) * 100),
		})
	}

	sort.Slice(mistakes, func(i, j int) bool {
		if mistakes[i].IncorrectCount != mistakes[j].IncorrectCount {
			return mistakes[i].IncorrectCount > mistakes[j].IncorrectCount
		}
		return mistakes[i].Question < mistakes[j].Question
	})
	if len(mistakes) > commonMistakesTop {
		mistakes = mistakes[:commonMistakesTop]
	}

	if unreadable > 0 {
		return mistakes, fmt.Errorf("%w: %d question logs unreadable", ErrPartialAnalyticsFailure, unreadable)
	}
	return mistakes, nil
}

// ===== HELPERS =====

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		sum += sample
	}
	return sum / float64(len(samples))
}

func roundPercent(value float64) float64 {
	return math.Round(value*100) / 100
}
