package domain

// Fossil is an exhibit in the fossils room.
type Fossil struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	FossilType     string `json:"fossil_type"`
	Era            string `json:"era"`
	AgeInYears     string `json:"age_in_years"` // free text, e.g. "66 million"
	Description    string `json:"description"`
	OriginLocation string `json:"origin_location"`
	ImageURL       string `json:"image_url"`
	Model3DEmbed   string `json:"model_3d_embed,omitempty"`
	AudioStoryURL  string `json:"audio_story_url"`
}

// FossilInput is the admin payload for creating or replacing a fossil.
type FossilInput struct {
	Name           string `json:"name" validate:"required"`
	FossilType     string `json:"fossil_type" validate:"required"`
	Era            string `json:"era" validate:"required"`
	AgeInYears     string `json:"age_in_years"`
	Description    string `json:"description" validate:"required"`
	OriginLocation string `json:"origin_location"`
	ImageURL       string `json:"image_url" validate:"required"`
	Model3DEmbed   string `json:"model_3d_embed,omitempty"`
	AudioStoryURL  string `json:"audio_story_url" validate:"required"`
}
