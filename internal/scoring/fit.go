// Package scoring computes a deterministic fit percentage between a CV and a job description.
package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Weights are in tenths so the weighted sum stays exact for whole-number components.
const (
	skillWeight      = 4
	experienceWeight = 3
	keywordWeight    = 3
)

// minKeywordRunes excludes short filler words from keyword matching.
const minKeywordRunes = 4

// maxYears caps summed year mentions so absurd numbers cannot overflow.
const maxYears = 1_000_000

// Vocabulary is the fixed set of technical skills recognized by the scorer.
var Vocabulary = []string{
	"javascript", "typescript", "python", "express", "nest js", "strapi", "gatsby",
	"next.js", "flask", "react", "redux", "postgresql", "mysql", "mongodb", "aws",
	"docker", "kubernetes", "graphql", "ci/cd", "node.js", "prisma", "typeorm", "sequelize",
}

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:year|yrs?)`)

// Result is the per-component breakdown of a fit score.
type Result struct {
	Skill         float64
	Experience    float64
	Keyword       float64
	Score         int
	CVYears       int
	JobYears      int
	MatchedSkills []string
	MissingSkills []string
}

// Score returns the fit percentage in [0, 100].
func Score(cvText, jobText string) int {
	return Breakdown(cvText, jobText).Score
}

// Breakdown computes the weighted skill, experience and keyword components.
func Breakdown(cvText, jobText string) Result {
	cvLower := strings.ToLower(cvText)
	jobLower := strings.ToLower(jobText)

	var res Result

	var jobSkills int
	for _, skill := range Vocabulary {
		if !strings.Contains(jobLower, skill) {
			continue
		}
		jobSkills++
		if strings.Contains(cvLower, skill) {
			res.MatchedSkills = append(res.MatchedSkills, skill)
		} else {
			res.MissingSkills = append(res.MissingSkills, skill)
		}
	}
	if jobSkills > 0 {
		res.Skill = float64(len(res.MatchedSkills)) / float64(jobSkills) * 100
	}

	res.CVYears = sumYears(cvLower)
	res.JobYears = sumYears(jobLower)
	if res.JobYears == 0 {
		res.JobYears = 1
	}
	res.Experience = math.Min(float64(res.CVYears)/float64(res.JobYears)*100, 100)

	var keywords, matched int
	for _, word := range strings.Fields(jobLower) {
		if utf8.RuneCountInString(word) < minKeywordRunes {
			continue
		}
		keywords++
		if strings.Contains(cvLower, word) {
			matched++
		}
	}
	if keywords > 0 {
		res.Keyword = float64(matched) / float64(keywords) * 100
	}

	weighted := (skillWeight*res.Skill + experienceWeight*res.Experience + keywordWeight*res.Keyword) / 10
	res.Score = int(math.Round(math.Max(0, math.Min(weighted, 100))))
	return res
}

// sumYears adds every "N years" mention, saturating at maxYears.
func sumYears(text string) int {
	var total int
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxYears {
			// digits only, so the only failure is overflow
			n = maxYears
		}
		total = min(total+n, maxYears)
	}
	return total
}
