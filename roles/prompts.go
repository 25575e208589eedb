package roles

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/coach/session"
)

func participantBlock(p session.Participant) string {
	return fmt.Sprintf(
		"Candidate: %s\nTarget position: %s\nTarget grade: %s\nStated experience: %s",
		p.Name, p.Position, p.Grade, p.Experience,
	)
}

func languageRule(language string) string {
	return fmt.Sprintf("Write every text field in %s.", language)
}

func mentorPrompt(s session.Session, language, escalation string) string {
	var b strings.Builder
	b.WriteString("You are the Mentor observing a technical job interview. You never talk to the candidate.\n")
	b.WriteString("Evaluate the candidate's most recent message against the whole conversation and decide what the Interviewer should do next.\n\n")
	b.WriteString(participantBlock(s.Participant))
	b.WriteString("\n\nSummary of the interview so far:\n")
	b.WriteString(s.Summary)
	b.WriteString("\n\nRules:\n")
	b.WriteString("- Check factual correctness. If the answer contains a mistake, set correction_needed and explain it in correction_details.\n")
	b.WriteString("- Detect evasion, role reversal and off-topic replies and tell the Interviewer how to steer back.\n")
	b.WriteString("- Adapt difficulty: go deeper after strong answers, simplify after weak ones.\n")
	b.WriteString("- Never repeat a topic that was already covered.\n")
	b.WriteString("- Set stop_interview_flag only when the candidate explicitly asks to finish or the assessment is complete.\n")
	b.WriteString("- confidence_score is your confidence in the current assessment, from 0 to 100.\n")
	if escalation != "" {
		b.WriteString("\nThe Interviewer asked for your help before replying. Its reasoning:\n")
		b.WriteString(escalation)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(languageRule(language))
	return b.String()
}

func interviewerPrompt(p session.Participant, language string) string {
	var b strings.Builder
	b.WriteString("You are the Interviewer in a technical job interview. You speak directly to the candidate.\n")
	b.WriteString("Ask one clear question at a time, keep a professional and friendly tone, and never reveal the Mentor's notes.\n\n")
	b.WriteString(participantBlock(p))
	b.WriteString("\n\nSet call_mentor only when you cannot decide how to continue without the Mentor's analysis.\n\n")
	b.WriteString(languageRule(language))
	return b.String()
}

func directiveContext(directive string) string {
	return "Mentor directive for your next message (follow it, do not quote it):\n" + directive
}

const compactorPrompt = "You maintain the working memory of a technical interview. " +
	"Merge the new turn into the current summary. Keep every fact about the candidate's knowledge, " +
	"mistakes, strengths and covered topics. Be concise and never drop facts from the current summary."

func compactorInput(summary string, turn session.TurnLog) string {
	return fmt.Sprintf(
		"Current summary:\n%s\n\nNew turn %d\nInterviewer: %s\nCandidate: %s\nInternal notes:\n%s",
		summary, turn.TurnID, turn.Question, turn.CandidateAnswer, turn.InternalThoughts,
	)
}

func reporterPrompt(p session.Participant, language string) string {
	var b strings.Builder
	b.WriteString("You are a senior hiring committee member writing the final assessment of a technical interview.\n\n")
	b.WriteString(participantBlock(p))
	b.WriteString("\n\nBase every statement on the transcript. Grade the candidate's actual level, which may differ from the target.\n")
	b.WriteString("Confirmed skills must be backed by correct answers. Knowledge gaps must name concrete topics; gap_solutions gives the correct answer or explanation for each gap.\n")
	b.WriteString("personal_roadmap lists ordered study items, most important first.\n\n")
	b.WriteString(languageRule(language))
	return b.String()
}

func reporterInput(summary, transcript string) string {
	return fmt.Sprintf("Interview summary:\n%s\n\nFull transcript (JSON):\n%s", summary, transcript)
}
