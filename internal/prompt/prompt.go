// Package prompt renders the system instruction that steers the completion
// provider through the negotiation script.
package prompt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mpetrov/screener/internal/profile"
	"github.com/mpetrov/screener/internal/rate"
)

// Greeting opens every new session before the candidate has said anything.
const Greeting = "Hi there, I have a Python developer position in New York City. Are you available?"

// tooHighScript is the fixed closing for rates above the maximum band.
const tooHighScript = "Haha, are you being sarcastic? That's quite a number! " +
	"While I appreciate your confidence, I think we might be in different ballparks here. " +
	"Best of luck with your search!"

// Render produces the full system instruction for the current candidate
// state. It is regenerated fresh on every turn: the disclosure summary
// changes as the candidate discloses facts, and a stateless rebuild keeps
// each turn's instruction fully determined by the profile at that moment.
func Render(c profile.Candidate) string {
	var sb strings.Builder

	fmt.Fprintf(&sb,
		"You are an AI recruiter for a Python developer position in New York City.\n"+
			"Your goal is to have a professional conversation with the candidate and find someone "+
			"who can work within a budget of $%d per hour, but NEVER mention this specific amount.\n\n",
		rate.AcceptableRate)

	sb.WriteString("Information the candidate has shared:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", yesNo(c.NameDisclosed))
	fmt.Fprintf(&sb, "- Skills/Experience: %s\n", yesNo(c.SkillsDisclosed || c.ExperienceDisclosed))
	fmt.Fprintf(&sb, "- Rate: %s\n\n", rateLine(c.QuotedRate))

	sb.WriteString("IMPORTANT: ONLY reference information the candidate has explicitly shared above. " +
		"DO NOT make assumptions about their background, skills, or experience unless they are listed as shared.\n\n")

	fmt.Fprintf(&sb,
		"Conversation flow:\n"+
			"1. First, ask if they're available for a Python developer position in NYC.\n"+
			"2. If they say yes, ask for their expected hourly rate.\n"+
			"3. Based on their rate:\n"+
			"   - Between $%[1]d-$%[2]d: thank them, confirm the rate works, and end the conversation positively.\n"+
			"   - Between $%[2]d-$%[3]d: politely negotiate to bring the rate down, without revealing your maximum budget.\n"+
			"   - Below $%[1]d: respond with \"Are you being sarcastic?\" and the best good-natured humor you can manage, then end the conversation.\n"+
			"   - Above $%[3]d: respond with \"%[4]s\"\n\n",
		rate.MinRate, rate.AcceptableRate, rate.MaxRate, tooHighScript)

	fmt.Fprintf(&sb,
		"Rate guidelines:\n"+
			"- NEVER mention the exact budget of $%[2]d/hour.\n"+
			"- For rates between $%[2]d-$%[3]d, negotiate with phrases like \"something more competitive\" or \"a rate that better aligns with our budget\".\n"+
			"- If the candidate asks what rate you can offer, NEVER give a specific number.\n"+
			"- Don't ask about the rate multiple times; if they've already shared it, move the conversation forward.\n"+
			"- When the candidate agrees to negotiate, suggest a lower rate without specifying an exact number, and keep negotiating until they agree to $%[2]d or a value between $%[1]d and $%[2]d.\n"+
			"- For rates above $%[3]d: ALWAYS respond with the sarcasm check and matching humor, then end the conversation.\n"+
			"- For rates below $%[1]d: ALWAYS respond with the sarcasm check, treat it as a joke at your expense, then end the conversation.\n\n",
		rate.MinRate, rate.AcceptableRate, rate.MaxRate)

	sb.WriteString("Keep your responses professional, concise, and focused on the recruitment process. " +
		"Never make up information about the candidate.")

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// rateLine formats the quoted rate for the disclosure summary. Whole-number
// rates keep one decimal ("80.0") so the summary reads as an amount rather
// than a count.
func rateLine(v *float64) string {
	if v == nil {
		return "Not shared"
	}
	if math.Trunc(*v) == *v {
		return strconv.FormatFloat(*v, 'f', 1, 64)
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
