package domain

// Weapon is an exhibit in the weapons room.
type Weapon struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	DynastyContext []string `json:"dynasty_context"`
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	Model3DEmbed   string   `json:"model_3d_embed,omitempty"`
	AudioStoryURL  string   `json:"audio_story_url"`
}

// WeaponInput is the admin payload for creating or replacing a weapon.
type WeaponInput struct {
	Name           string   `json:"name" validate:"required"`
	DynastyContext []string `json:"dynasty_context"`
	Type           string   `json:"type" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	ImageURL       string   `json:"image_url" validate:"required"`
	Model3DEmbed   string   `json:"model_3d_embed,omitempty"`
	AudioStoryURL  string   `json:"audio_story_url" validate:"required"`
}
