package chat

import "strings"

// topic is one canned subject the assistant can explain. Keywords are
// matched against the lowercased message; the first matching topic wins.
type topic struct {
	name       string
	keywords   []string
	clauseType string
	response   string
}

// match reports whether the message hits any of the topic's keywords.
func (t topic) match(message string) bool {
	for _, kw := range t.keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

// topics is evaluated in order, so more specific subjects come first.
var topics = []topic{
	{
		name:       "liquidation preference",
		keywords:   []string{"liquidation", "preference"},
		clauseType: "Liquidation Preference",
		response: `Liquidation Preference determines who gets paid first when your company is sold.

Types:
- 1x Non-Participating (standard, founder-friendly): the investor gets their money back first, then everyone shares the remainder.
- 2x or 3x (bad for founders): the investor gets two to three times their investment back first.
- Participating (worst, "double dipping"): the investor takes the preference AND a share of the remaining proceeds.

Example: $1M invested at 2x participating with a $5M exit means the investor takes $2M plus a share of the remaining $3M, leaving founders very little.

Negotiate for: 1x non-participating.`,
	},
	{
		name:       "anti-dilution",
		keywords:   []string{"anti-dilution", "anti dilution", "ratchet", "down round"},
		clauseType: "Anti-Dilution",
		response: `Anti-Dilution protection shields investors if you raise money at a lower valuation (a down round).

Types:
- No protection (best for founders).
- Weighted average (fair, modest adjustment).
- Full ratchet (terrible: massive founder dilution).

Example: an investor bought at $10 per share and the next round prices at $5. Under full ratchet the investor's price resets to $5, doubling their shares at your expense.

Negotiate for: no anti-dilution, or weighted average only.`,
	},
	{
		name:       "board control",
		keywords:   []string{"board", "control", "governance"},
		clauseType: "Board Control",
		response: `Board Control determines who makes the key decisions about your company: hiring and firing the CEO, approving major expenses, raising future funding, and selling the company.

Structures:
- Founder majority (you keep control).
- Balanced board (for example two founders, one investor, two independents).
- Investor majority (you can lose your company).

Losing board control means investors can replace you as CEO.

Negotiate for: founder majority or a balanced board.`,
	},
	{
		name:       "vesting",
		keywords:   []string{"vest", "cliff", "acceleration"},
		clauseType: "Vesting",
		response: `Vesting means you earn your equity over time; leave early and you lose unvested shares.

Standard terms: 4 years total with a 1 year cliff, then monthly vesting.

Acceleration matters:
- Single trigger: all shares vest on acquisition.
- Double trigger: shares vest only if the company is acquired AND you are terminated.
- No acceleration: you lose unvested shares even in an acquisition.

Negotiate for: single or double trigger acceleration.`,
	},
	{
		name:       "drag-along",
		keywords:   []string{"drag-along", "drag along", "forced sale"},
		clauseType: "Drag-Along Rights",
		response: `Drag-Along Rights let majority shareholders force minority holders to join a sale of the company.

Standard terms require more than 75% approval before a drag can trigger. Watch for low thresholds (below 50%) and the absence of minimum price protection.

Negotiate for: a high approval threshold and a price floor.`,
	},
}

// helpResponse is returned when no topic matches and no analysis context
// applies.
const helpResponse = `I can help you understand startup funding agreements. Ask me about:

Critical terms: liquidation preference, anti-dilution protection, board control and governance.
Important terms: vesting and acceleration, drag-along rights, pro-rata rights.

Try asking:
- "What is liquidation preference?"
- "Is 2x participating preference bad?"
- "How does board control work?"
- "What are the risks in my agreement?"`

// greetingResponse answers short salutations.
const greetingResponse = `Hello! I'm the AgreemShield assistant for startup funding agreements.

I can explain terms like liquidation preference, anti-dilution, board control, and vesting, or walk you through the risks found in an analyzed document. What would you like to know?`

var greetingWords = []string{"hi", "hello", "hey"}

func isGreeting(message string) bool {
	trimmed := strings.TrimSpace(message)
	for _, w := range greetingWords {
		if trimmed == w || strings.HasPrefix(trimmed, w+" ") || strings.HasPrefix(trimmed, w+",") || strings.HasPrefix(trimmed, w+"!") {
			return true
		}
	}
	return false
}
