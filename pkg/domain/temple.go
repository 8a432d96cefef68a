package domain

// Temple is an exhibit in the temples room.
type Temple struct {
	ID                     int    `json:"id"`
	Name                   string `json:"name"`
	Dynasty                string `json:"dynasty"`
	Builder                string `json:"builder"`
	TimePeriod             string `json:"time_period"`
	HistoricalSignificance string `json:"historical_significance"`
	WeaponUsed             string `json:"weapon_used"`
	StaticImageURL         string `json:"static_image_url"`
	Model3DEmbed           string `json:"model_3d_embed,omitempty"` // Sketchfab model ID
	AudioStoryURL          string `json:"audio_story_url"`
}

// TempleInput is the admin payload for creating or replacing a temple.
type TempleInput struct {
	Name                   string `json:"name" validate:"required"`
	Dynasty                string `json:"dynasty" validate:"required"`
	Builder                string `json:"builder" validate:"required"`
	TimePeriod             string `json:"time_period" validate:"required"`
	HistoricalSignificance string `json:"historical_significance" validate:"required"`
	WeaponUsed             string `json:"weapon_used"`
	StaticImageURL         string `json:"static_image_url" validate:"required"`
	Model3DEmbed           string `json:"model_3d_embed,omitempty"`
	AudioStoryURL          string `json:"audio_story_url" validate:"required"`
}
