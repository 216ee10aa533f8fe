package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"surveyscope/internal/config"
	"surveyscope/ports"
)

// ImageTheme names a culturally appropriate illustration subject for
// presentations in the Qatari educational context.
type ImageTheme string

const (
	ThemeSchoolBuilding ImageTheme = "school_building"
	ThemeFemaleStudents ImageTheme = "female_students"
	ThemeFemaleTeachers ImageTheme = "female_teachers"
	ThemeClassroom      ImageTheme = "classroom"
	ThemeLaboratory     ImageTheme = "laboratory"
	ThemeLibrary        ImageTheme = "library"
	ThemeActivities     ImageTheme = "activities"
	ThemeSuccess        ImageTheme = "success"
	ThemeCollaboration  ImageTheme = "collaboration"
)

// PresentationThemes are generated by default for every presentation.
var PresentationThemes = []string{
	string(ThemeSchoolBuilding),
	string(ThemeFemaleStudents),
	string(ThemeClassroom),
	string(ThemeSuccess),
}

const baseImageStyle = "professional, high quality, educational setting, respectful, culturally appropriate for Qatar"

var themePrompts = map[ImageTheme]string{
	ThemeSchoolBuilding: "Modern Qatari school building exterior with Islamic architectural elements, clean lines, white and beige colors, palm trees, blue sky",
	ThemeFemaleStudents: "Qatari female students in traditional school uniform, sitting in classroom, engaged in learning, smiling, books and tablets",
	ThemeFemaleTeachers: "Qatari female teacher in professional modest attire, standing in front of whiteboard, teaching students, warm and encouraging expression",
	ThemeClassroom:      "Modern Qatari classroom interior, rows of desks, whiteboard, educational posters in Arabic, bright and clean, natural lighting",
	ThemeLaboratory:     "Modern science laboratory in Qatari school, lab equipment, microscopes, safety equipment, students conducting experiments",
	ThemeLibrary:        "Modern school library in Qatar, bookshelves with Arabic and English books, reading areas, students studying quietly, natural light",
	ThemeActivities:     "Qatari students participating in educational activities, group work, presentations, collaborative learning",
	ThemeSuccess:        "Celebration of academic success in Qatari school, students receiving certificates, proud expressions",
	ThemeCollaboration:  "Qatari students working together on project, teamwork, discussion, problem-solving",
}

// SelectThemeForQuestion picks an illustration theme from question text
// keywords, defaulting to the classroom.
func SelectThemeForQuestion(questionText string) ImageTheme {
	text := strings.ToLower(questionText)
	switch {
	case containsAny(text, "مختبر", "تجارب", "علوم"):
		return ThemeLaboratory
	case containsAny(text, "مكتبة", "قراءة", "كتب"):
		return ThemeLibrary
	case containsAny(text, "نشاط", "أنشطة", "فعاليات"):
		return ThemeActivities
	case containsAny(text, "معلم", "معلمة", "تدريس"):
		return ThemeFemaleTeachers
	case containsAny(text, "تعاون", "مجموعة", "فريق"):
		return ThemeCollaboration
	case containsAny(text, "نجاح", "تفوق", "إنجاز"):
		return ThemeSuccess
	default:
		return ThemeClassroom
	}
}

func containsAny(text string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// ImageGenerator calls the OpenAI images API for presentation illustrations.
type ImageGenerator struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

var _ ports.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator creates the image generator
func NewImageGenerator(cfg *config.AIConfig) *ImageGenerator {
	return &ImageGenerator{
		apiKey:  cfg.OpenAIKey,
		baseURL: "https://api.openai.com/v1",
		model:   cfg.ImageModel,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

// GenerateForThemes generates one image per theme, best-effort: failed
// themes are skipped and the presentation renders without them.
func (g *ImageGenerator) GenerateForThemes(ctx context.Context, themes []string) map[string]string {
	images := make(map[string]string)
	for _, theme := range themes {
		url, err := g.generate(ctx, ImageTheme(theme))
		if err != nil {
			log.Printf("[ImageGenerator] Skipping theme %s: %v", theme, err)
			continue
		}
		images[theme] = url
	}
	return images
}

func (g *ImageGenerator) generate(ctx context.Context, theme ImageTheme) (string, error) {
	subject, ok := themePrompts[theme]
	if !ok {
		return "", fmt.Errorf("unknown image theme: %s", theme)
	}

	reqBody := map[string]interface{}{
		"model":  g.model,
		"prompt": subject + ", " + baseImageStyle,
		"n":      1,
		"size":   "1024x1024",
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/images/generations", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("images API error (status %d): %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to parse images response: %w", err)
	}
	if len(envelope.Data) == 0 || envelope.Data[0].URL == "" {
		return "", fmt.Errorf("no image in response")
	}
	return envelope.Data[0].URL, nil
}
