package auth

import (
	"github.com/LGEM-2025/scoring-service/internal/config"
	"github.com/LGEM-2025/scoring-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
)

const unknownStudentName = "Unknown Student"

// RosterService resolves student identifiers to display names for reports.
// Name lookups are best-effort: a missing or unreachable directory never
// fails a report, it just yields the fallback name.
type RosterService interface {
	DisplayName(studentID string) string
	DisplayNames(studentIDs []string) map[string]string
}

type casdoorRosterService struct {
	client *casdoorsdk.Client
	logger utils.Logger
}

func NewCasdoorRosterService(cfg *config.Config, logger utils.Logger) RosterService {
	client := casdoorsdk.NewClient(
		cfg.CasdoorEndpoint,
		cfg.CasdoorClientID,
		cfg.CasdoorClientSecret,
		cfg.CasdoorCertificate,
		cfg.CasdoorOrganization,
		cfg.CasdoorApplication,
	)
	return &casdoorRosterService{
		client: client,
		logger: logger,
	}
}

func (s *casdoorRosterService) DisplayName(studentID string) string {
	user, err := s.client.GetUser(studentID)
	if err != nil || user == nil {
		if err != nil {
			s.logger.Warn("Failed to resolve student name", "student_id", studentID, "error", err)
		}
		return unknownStudentName
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Name != "" {
		return user.Name
	}
	return unknownStudentName
}

func (s *casdoorRosterService) DisplayNames(studentIDs []string) map[string]string {
	names := make(map[string]string, len(studentIDs))
	for _, id := range studentIDs {
		names[id] = s.DisplayName(id)
	}
	return names
}

// StaticRosterService serves display names from a fixed map, for tests and
// deployments without a user directory.
type StaticRosterService struct {
	Names map[string]string
}

func NewStaticRosterService(names map[string]string) *StaticRosterService {
	return &StaticRosterService{Names: names}
}

func (s *StaticRosterService) DisplayName(studentID string) string {
	if name, ok := s.Names[studentID]; ok && name != "" {
		return name
	}
	return unknownStudentName
}

func (s *StaticRosterService) DisplayNames(studentIDs []string) map[string]string {
	names := make(map[string]string, len(studentIDs))
	for _, id := range studentIDs {
		names[id] = s.DisplayName(id)
	}
	return names
}
