package ai

import (
	"fmt"
	"sort"
	"strings"
)

// maxLabelContent bounds the message text sent for labelling
const maxLabelContent = 1000

// LabelVocabulary lists the labels the model is asked to choose from
var LabelVocabulary = []string{
	"work", "personal", "urgent", "follow-up", "meeting", "project",
	"finance", "travel", "social", "newsletter", "promotion", "notification",
}

func labelsPrompt(subject, content, sender string) string {
	var b strings.Builder
	b.WriteString("Analyze this email and assign relevant labels from these categories:\n")
	for _, l := range LabelVocabulary {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nEmail:\nSubject: %s\nFrom: %s\nContent: %s\n\n", subject, sender, truncateRunes(content, maxLabelContent))
	b.WriteString("Return only the most relevant 2-3 labels as a comma-separated list.")
	return b.String()
}

func summaryPrompt(subject, body, snippet string) string {
	content := body
	if content == "" {
		content = snippet
	}
	return fmt.Sprintf(`Please provide a concise summary of this email in 2-3 bullet points:

Subject: %s
Content: %s

Focus on:
- Main purpose of the email
- Key action items required
- Important details or deadlines

Format as bullet points.`, subject, content)
}

func smartReplyPrompt(subject, body, sender string) string {
	return fmt.Sprintf(`Generate a professional email reply for this message:

From: %s
Subject: %s
Content: %s

Provide 3 different reply options:
1. Professional and formal
2. Casual and friendly
3. Quick acknowledgment

Format each option clearly.`, sender, subject, body)
}

func composePrompt(req ComposeRequest) string {
	return fmt.Sprintf(`Compose an email with the following details:

Recipient: %s
Purpose: %s
Context: %s
Tone: %s

Please generate a complete email with:
- Appropriate subject line
- Professional greeting
- Clear and concise body content
- Professional closing

Make sure the email is well-structured and appropriate for the given context and tone.`,
		req.Recipient, req.Purpose, req.Context, req.Tone)
}

func enhancePrompt(subject, body string) string {
	return fmt.Sprintf(`Please enhance and improve this email content. Make it more professional, clear, and effective:

Subject: %s
Current Content: %s

Please return only the enhanced version of the email body content, keeping the original intent while improving clarity and grammar.`, subject, body)
}

func overallAnalysisPrompt(s BatchStats) string {
	return fmt.Sprintf(`Analyze this email batch:
- Total emails: %d
- Work/Urgent: %d
- Medium priority: %d
- Low priority: %d
- Promotions: %d

Provide a brief 2-3 sentence analysis of the inbox state and one suggestion for productivity improvement.`,
		s.Total, s.Work, s.Medium, s.Low, s.Promotions)
}

func labelRecommendationsPrompt(distribution map[string]int) string {
	return fmt.Sprintf(`Based on this email label distribution: %s

Provide 2-3 practical recommendations for organizing this inbox more effectively.`, formatDistribution(distribution))
}

// formatDistribution renders label counts most frequent first, ties by name
func formatDistribution(distribution map[string]int) string {
	labels := make([]string, 0, len(distribution))
	for l := range distribution {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if distribution[labels[i]] != distribution[labels[j]] {
			return distribution[labels[i]] > distribution[labels[j]]
		}
		return labels[i] < labels[j]
	})

	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s: %d", l, distribution[l]))
	}
	return strings.Join(parts, ", ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
