// Package flowchart generates Mermaid flowchart definitions from plain
// prompts when no external generator is available. Matching is keyword
// based and deterministic: rules are evaluated in a fixed priority
// order and the first hit wins.
package flowchart

import "strings"

type rule struct {
	keywords []string
	diagram  string
}

// Rules are ordered by priority. The last entry has no keywords and
// acts as the catch-all.
var rules = []rule{
	{
		keywords: []string{"registration", "sign up", "account"},
		diagram: `graph TD
    A[Start] --> B[Open Registration Form]
    B --> C[Enter Details]
    C --> D{Details Valid?}
    D -->|No| C
    D -->|Yes| E[Create Account]
    E --> F[Send Verification Email]
    F --> G[Verify Email]
    G --> H[Registration Complete]`,
	},
	{
		keywords: []string{"login", "authentication", "sign in"},
		diagram: `graph TD
    A[Start] --> B[Enter Credentials]
    B --> C{Credentials Valid?}
    C -->|No| D[Show Error]
    D --> B
    C -->|Yes| E[Create Session]
    E --> F[Redirect to Dashboard]`,
	},
	{
		keywords: []string{"order", "purchase", "payment"},
		diagram: `graph TD
    A[Start] --> B[Browse Items]
    B --> C[Add to Cart]
    C --> D[Checkout]
    D --> E{Payment Successful?}
    E -->|No| F[Show Payment Error]
    F --> D
    E -->|Yes| G[Confirm Order]
    G --> H[Send Receipt]`,
	},
	{
		keywords: []string{"process", "workflow", "procedure"},
		diagram: `graph TD
    A[Start] --> B[Receive Input]
    B --> C[Validate Input]
    C --> D{Valid?}
    D -->|No| E[Reject]
    D -->|Yes| F[Execute Steps]
    F --> G[Record Outcome]
    G --> H[End]`,
	},
	{
		diagram: `graph TD
    A[Start] --> B[Analyze Requirements]
    B --> C[Plan Steps]
    C --> D[Execute]
    D --> E{Goal Reached?}
    E -->|No| C
    E -->|Yes| F[End]`,
	},
}

// Generate returns the Mermaid definition for the first rule whose
// keywords appear in the prompt. Matching is case insensitive; the same
// prompt always yields the same diagram.
func Generate(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, r := range rules {
		if len(r.keywords) == 0 {
			return r.diagram
		}
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.diagram
			}
		}
	}
	return rules[len(rules)-1].diagram
}
