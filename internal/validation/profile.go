package validation

type ProfileInput struct {
	Handle         string `json:"handle" validate:"required,min=2,max=40"`
	Company        string `json:"company"`
	Website        string `json:"website" validate:"omitempty,url"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required"`
	Skills         string `json:"skills" validate:"required"`
	GitHubUsername string `json:"githubusername"`

	YouTube   string `json:"youtube" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required,date"`
	To          string `json:"to" validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required,date"`
	To           string `json:"to" validate:"omitempty,date"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var profileMessages = messages{
	"handle": {
		"required": "Profile handle is required",
		"":         "Handle needs to be between 2 and 40 characters",
	},
	"status": {"required": "Status field is required"},
	"skills": {"required": "Skills field is required"},
}

var experienceMessages = messages{
	"title":   {"required": "Job title field is required"},
	"company": {"required": "Company field is required"},
	"from":    {"required": "From date field is required", "date": "From date is not a valid date"},
	"to":      {"date": "To date is not a valid date"},
}

var educationMessages = messages{
	"school":       {"required": "School field is required"},
	"degree":       {"required": "Degree field is required"},
	"fieldofstudy": {"required": "Field of study field is required"},
	"from":         {"required": "From date field is required", "date": "From date is not a valid date"},
	"to":           {"date": "To date is not a valid date"},
}

// ValidateProfileInput trims every field in place before checking it.
func ValidateProfileInput(in *ProfileInput) (Errors, bool) {
	trim(&in.Handle, &in.Company, &in.Website, &in.Location, &in.Bio, &in.Status, &in.Skills,
		&in.GitHubUsername, &in.YouTube, &in.Twitter, &in.Facebook, &in.LinkedIn, &in.Instagram)
	return run(in, profileMessages)
}

func ValidateExperienceInput(in *ExperienceInput) (Errors, bool) {
	trim(&in.Title, &in.Company, &in.Location, &in.From, &in.To, &in.Description)
	return run(in, experienceMessages)
}

func ValidateEducationInput(in *EducationInput) (Errors, bool) {
	trim(&in.School, &in.Degree, &in.FieldOfStudy, &in.From, &in.To, &in.Description)
	return run(in, educationMessages)
}
