package llm

import (
	"fmt"
	"strings"
)

const (
	maxMatches    = 2
	minMatchScore = 0.5
)

type courseRecommendation struct {
	CourseID string  `json:"courseId"`
	Score    float64 `json:"score"`
}

// filterRecommendations keeps recommendations at or above the score
// threshold whose course ID exists in the supplied catalog, capped at
// maxMatches. Unknown IDs are dropped silently.
func filterRecommendations(recs []courseRecommendation, catalog []CourseOption) []CourseMatch {
	byID := make(map[string]CourseOption, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}

	var matches []CourseMatch
	for _, r := range recs {
		if r.Score < minMatchScore {
			continue
		}
		course, ok := byID[r.CourseID]
		if !ok {
			continue
		}
		matches = append(matches, CourseMatch{
			CourseID:     course.ID,
			Title:        course.Title,
			AffiliateURL: course.AffiliateURL,
			Score:        r.Score,
		})
		if len(matches) == maxMatches {
			break
		}
	}
	return matches
}

func formatCourseList(catalog []CourseOption) string {
	var sb strings.Builder
	for i, c := range catalog {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, c.ID, c.Title))
		if c.Description != "" {
			sb.WriteString(" - " + c.Description)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
