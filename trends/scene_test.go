package trends

import (
	"strings"
	"testing"
)

const validSceneJSON = `{
	"scene_description": {
		"environment": "industrial loft with exposed brick and tall windows",
		"lighting": "soft diffused window light from the left",
		"colors": ["warm terracotta", "charcoal gray", "cream"],
		"textures": ["brushed concrete", "aged leather"],
		"mood": "understated urban calm"
	}
}`

func TestParseSceneResponse(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		scene, err := ParseSceneResponse(validSceneJSON)
		if err != nil {
			t.Fatalf("ParseSceneResponse() error = %v", err)
		}
		if scene.Environment == "" || len(scene.Colors) != 3 || len(scene.Textures) != 2 {
			t.Errorf("scene = %+v", scene)
		}
	})

	t.Run("fenced json", func(t *testing.T) {
		fenced := "```json\n" + validSceneJSON + "\n```"
		scene, err := ParseSceneResponse(fenced)
		if err != nil {
			t.Fatalf("ParseSceneResponse(fenced) error = %v", err)
		}
		if scene.Mood != "understated urban calm" {
			t.Errorf("mood = %q", scene.Mood)
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := ParseSceneResponse("sorry, I cannot do that"); err == nil {
			t.Error("accepted a non-JSON response")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		missing := `{"scene_description": {"environment": "loft", "lighting": "soft", "mood": "calm"}}`
		if _, err := ParseSceneResponse(missing); err == nil {
			t.Error("accepted a scene without colors and textures")
		}
	})
}

func TestEnhancePrompt(t *testing.T) {
	scene, err := ParseSceneResponse(validSceneJSON)
	if err != nil {
		t.Fatalf("ParseSceneResponse() error = %v", err)
	}

	prompt := EnhancePrompt(scene, DefaultPhotographyParams())

	// Ordering: technical quality leads, scene elements follow, grading
	// closes.
	if !strings.HasPrefix(prompt, "8k ultra detailed product photography") {
		t.Errorf("prompt does not lead with quality block: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "professional color grading, studio quality") {
		t.Errorf("prompt does not close with grading: %q", prompt)
	}
	lightingAt := strings.Index(prompt, "soft diffused window light")
	environmentAt := strings.Index(prompt, "industrial loft")
	if lightingAt == -1 || environmentAt == -1 || lightingAt > environmentAt {
		t.Errorf("lighting must precede environment: %q", prompt)
	}
	if !strings.Contains(prompt, "materials: brushed concrete, aged leather") {
		t.Errorf("materials missing: %q", prompt)
	}
	if !strings.Contains(prompt, "colors: warm terracotta, charcoal gray, cream") {
		t.Errorf("colors missing: %q", prompt)
	}
	if !strings.Contains(prompt, "85mm lens, f/4.0, sharp focus") {
		t.Errorf("camera block missing: %q", prompt)
	}
}

func TestEnhancePromptStripsTrailingPeriods(t *testing.T) {
	scene := SceneDescription{
		Environment: "rooftop terrace.",
		Lighting:    "golden hour glow.",
		Colors:      []string{"amber"},
		Textures:    []string{"steel"},
		Mood:        "serene.",
	}
	prompt := EnhancePrompt(scene, DefaultPhotographyParams())
	if strings.Contains(prompt, ".,") || strings.Contains(prompt, "..") {
		t.Errorf("prompt carries stray periods: %q", prompt)
	}
}
