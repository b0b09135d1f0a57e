package content

// Fallback is the hard-coded document used when neither storage nor the remote source
// yields content. Every call returns a fresh, identical document.
func Fallback() *Document {
	return &Document{
		Hero: &Hero{
			Title:       `Hi, I'm <span class="highlight">a developer</span>`,
			Subtitle:    "Front-End Developer & Designer",
			Description: "Building digital experiences with clean code and thoughtful design.",
			Buttons:     []Button{},
		},
		Projects:       &Projects{Items: []Item{}},
		Certifications: &Certifications{Stats: []Stat{}, Items: []Item{}},
		About:          &About{Content: []string{}, Skills: []Skill{}},
		Contact:        &Contact{Info: []ContactInfo{}, Social: []SocialLink{}},
		Site:           &Site{},
		Settings:       &Settings{},
	}
}
