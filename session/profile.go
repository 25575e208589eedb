package session

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/coach/core/schema"
)

// DefaultParticipantName is used when a profile leaves the name empty.
const DefaultParticipantName = "Candidate"

// Profile is a participant description read from a YAML file:
//
//	user_info:
//	  name: Alex
//	  position: Backend Developer
//	  grade: Junior
//	  experience: pet projects
//	  first_message: Hello, I am ready.
type Profile struct {
	Participant  Participant
	FirstMessage string
}

type profileFile struct {
	UserInfo struct {
		Name         string `yaml:"name"`
		Position     string `yaml:"position"`
		Grade        string `yaml:"grade"`
		Experience   string `yaml:"experience"`
		FirstMessage string `yaml:"first_message"`
	} `yaml:"user_info"`
}

// LoadProfile reads and validates a participant profile.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to read profile: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodes a participant profile. Grades match case-insensitively;
// an empty name or grade falls back to DefaultParticipantName and Junior.
func ParseProfile(data []byte) (Profile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Profile{}, fmt.Errorf("failed to parse profile: %w", err)
	}

	info := f.UserInfo
	if strings.TrimSpace(info.Name) == "" {
		info.Name = DefaultParticipantName
	}
	if strings.TrimSpace(info.Grade) == "" {
		info.Grade = string(schema.Junior)
	}

	grade, err := schema.ParseGrade(info.Grade)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidParticipant, err)
	}

	p := Profile{
		Participant: Participant{
			Name:       strings.TrimSpace(info.Name),
			Position:   strings.TrimSpace(info.Position),
			Grade:      grade,
			Experience: strings.TrimSpace(info.Experience),
		},
		FirstMessage: strings.TrimSpace(info.FirstMessage),
	}

	if err := p.Participant.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
