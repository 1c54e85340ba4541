package apsara

// Known model ids.
const (
	ModelGemini25Pro       = "gemini-2.5-pro-preview-03-25"
	ModelGemini20Flash     = "gemini-2.0-flash"
	ModelGemini20FlashLite = "gemini-2.0-flash-lite"
	ModelGemini15Flash     = "gemini-1.5-flash"
	ModelGemini15Flash8B   = "gemini-1.5-flash-8b"
	ModelGemini15Pro       = "gemini-1.5-pro"
	ModelGeminiImageGen    = "gemini-2.0-flash-exp-image-generation"
	ModelImagen            = "imagen-3.0-generate-002"
)

// DefaultCatalog returns the built-in Gemini model catalog.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		ModelInfo{
			ID:               ModelGemini25Pro,
			DisplayName:      "Gemini 2.5 Pro",
			Description:      "Most powerful thinking model with maximum response accuracy",
			InputTokenLimit:  1_048_576,
			OutputTokenLimit: 65_536,
			SupportsImage:    true,
			SupportsAudio:    true,
			SupportsVideo:    true,
			Capabilities: Capabilities{
				FunctionCalling: true,
				CodeExecution:   true,
				Search:          true,
				NativeToolUse:   true,
				Thinking:        true,
			},
		},
		ModelInfo{
			ID:                  ModelGemini20Flash,
			DisplayName:         "Gemini 2.0 Flash",
			Description:         "Multimodal model with next generation features",
			InputTokenLimit:     1_048_576,
			OutputTokenLimit:    8_192,
			SupportsImage:       true,
			SupportsAudio:       true,
			SupportsVideo:       true,
			SupportsImageOutput: true,
			Capabilities: Capabilities{
				StructuredOutputs: true,
				FunctionCalling:   true,
				CodeExecution:     true,
				Search:            true,
				ImageGeneration:   true,
				NativeToolUse:     true,
				LiveAPI:           true,
				Thinking:          true,
			},
		},
		ModelInfo{
			ID:               ModelGemini20FlashLite,
			DisplayName:      "Gemini 2.0 Flash-Lite",
			Description:      "Flash model optimized for cost efficiency and low latency",
			InputTokenLimit:  1_048_576,
			OutputTokenLimit: 8_192,
			SupportsImage:    true,
			SupportsAudio:    true,
			SupportsVideo:    true,
			Capabilities: Capabilities{
				StructuredOutputs: true,
			},
		},
		ModelInfo{
			ID:               ModelGemini15Flash,
			DisplayName:      "Gemini 1.5 Flash",
			Description:      "Fast and versatile performance across a variety of tasks",
			InputTokenLimit:  1_048_576,
			OutputTokenLimit: 8_192,
			SupportsImage:    true,
			SupportsAudio:    true,
			SupportsVideo:    true,
			Capabilities: Capabilities{
				StructuredOutputs: true,
				Caching:           true,
				Tuning:            true,
				FunctionCalling:   true,
				CodeExecution:     true,
			},
		},
		ModelInfo{
			ID:               ModelGemini15Flash8B,
			DisplayName:      "Gemini 1.5 Flash-8B",
			Description:      "High volume and lower intelligence tasks",
			InputTokenLimit:  1_048_576,
			OutputTokenLimit: 8_192,
			SupportsImage:    true,
			SupportsAudio:    true,
			SupportsVideo:    true,
			Capabilities: Capabilities{
				StructuredOutputs: true,
				Caching:           true,
				Tuning:            true,
				FunctionCalling:   true,
				CodeExecution:     true,
			},
		},
		ModelInfo{
			ID:               ModelGemini15Pro,
			DisplayName:      "Gemini 1.5 Pro",
			Description:      "Complex reasoning tasks requiring more intelligence",
			InputTokenLimit:  2_097_152,
			OutputTokenLimit: 8_192,
			SupportsImage:    true,
			SupportsAudio:    true,
			SupportsVideo:    true,
			Capabilities: Capabilities{
				StructuredOutputs: true,
				Caching:           true,
				FunctionCalling:   true,
				CodeExecution:     true,
			},
		},
		ModelInfo{
			ID:                  ModelGeminiImageGen,
			DisplayName:         "Gemini Image Generation",
			Description:         "Text-to-image and image editing capabilities",
			InputTokenLimit:     1_048_576,
			OutputTokenLimit:    8_192,
			SupportsImage:       true,
			SupportsImageOutput: true,
		},
		ModelInfo{
			ID:                  ModelImagen,
			DisplayName:         "Imagen 3",
			Description:         "Most advanced image generation model",
			InputTokenLimit:     4096,
			SupportsImageOutput: true,
		},
	)
}
