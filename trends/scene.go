package trends

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SceneDescription is the structured scene the model distills from the
// collected posts.
type SceneDescription struct {
	Environment string   `json:"environment"`
	Lighting    string   `json:"lighting"`
	Colors      []string `json:"colors"`
	Textures    []string `json:"textures"`
	Mood        string   `json:"mood"`
}

type sceneEnvelope struct {
	SceneDescription SceneDescription `json:"scene_description"`
}

// TokenUsage records the estimated token spend of one analysis call.
type TokenUsage struct {
	PromptTokens   int `json:"prompt_tokens"`
	ResponseTokens int `json:"response_tokens"`
	TotalTokens    int `json:"total_tokens"`
}

// Analysis is the persisted result of one trend analysis run.
type Analysis struct {
	Timestamp      time.Time        `json:"timestamp"`
	Scene          SceneDescription `json:"scene_description"`
	EnhancedPrompt string           `json:"enhanced_prompt"`
	TokenUsage     TokenUsage       `json:"token_usage"`
}

// ParseSceneResponse decodes a model response into a SceneDescription.
// Markdown code fences around the JSON are tolerated; missing required
// fields are not.
func ParseSceneResponse(content string) (SceneDescription, error) {
	content = stripCodeFences(content)

	var envelope sceneEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return SceneDescription{}, fmt.Errorf("trends: decoding scene response: %w", err)
	}

	scene := envelope.SceneDescription
	switch {
	case scene.Environment == "":
		return scene, fmt.Errorf("trends: scene response missing environment")
	case scene.Lighting == "":
		return scene, fmt.Errorf("trends: scene response missing lighting")
	case len(scene.Colors) == 0:
		return scene, fmt.Errorf("trends: scene response missing colors")
	case len(scene.Textures) == 0:
		return scene, fmt.Errorf("trends: scene response missing textures")
	case scene.Mood == "":
		return scene, fmt.Errorf("trends: scene response missing mood")
	}
	return scene, nil
}

func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// EnhancePrompt assembles the image-generation prompt from the scene
// description and the photography parameters. Part ordering matters to the
// image model: technical quality first, then camera, then the scene, then
// composition and grading.
func EnhancePrompt(scene SceneDescription, params PhotographyParams) string {
	parts := []string{
		fmt.Sprintf("%s %s product photography", params.Quality.Render, params.Quality.Detail),
		fmt.Sprintf("%s, sharp detail, %s", params.Quality.Resolution, params.Quality.Lighting),
		fmt.Sprintf("%s, %s, %s", params.Camera.Lens, params.Camera.Aperture, params.Camera.Focus),
		strings.Trim(scene.Lighting, "."),
		strings.Trim(scene.Environment, "."),
		"materials: " + strings.Join(scene.Textures, ", "),
		"colors: " + strings.Join(scene.Colors, ", "),
		strings.Trim(scene.Mood, "."),
		fmt.Sprintf("balanced composition with %s, %s depth", params.Composition.Background, params.Composition.Depth),
		"professional color grading, studio quality",
	}

	kept := parts[:0]
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			kept = append(kept, part)
		}
	}

	prompt := strings.Join(kept, ", ")
	prompt = strings.ReplaceAll(prompt, "..", ".")
	prompt = strings.ReplaceAll(prompt, " ,", ",")
	return strings.Trim(prompt, ".")
}
