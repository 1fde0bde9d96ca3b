package models

// Draft section keys, in render order. Every draft carries exactly this
// set: Normalize fills absent keys with an empty string and drops unknown
// keys so downstream renderers can rely on the shape.
const (
	SectionProjectOverview  = "project_overview"
	SectionTechnicalStack   = "technical_stack"
	SectionFeatures         = "features"
	SectionInstallation     = "installation"
	SectionUsage            = "usage"
	SectionArchitecture     = "architecture"
	SectionAPIDocumentation = "api_documentation"
	SectionDevelopment      = "development"
	SectionDeployment       = "deployment"
	SectionContributing     = "contributing"
	SectionLicenseInfo      = "license_info"
)

// SectionKeys lists the canonical draft sections in render order
var SectionKeys = []string{
	SectionProjectOverview,
	SectionTechnicalStack,
	SectionFeatures,
	SectionInstallation,
	SectionUsage,
	SectionArchitecture,
	SectionAPIDocumentation,
	SectionDevelopment,
	SectionDeployment,
	SectionContributing,
	SectionLicenseInfo,
}

// DraftStructure holds the section content produced by the LLM draft step
// and refined during generation cycles.
type DraftStructure struct {
	Sections map[string]string `json:"sections"`
}

// NewDraftStructure returns an empty draft with all canonical keys present
func NewDraftStructure() *DraftStructure {
	d := &DraftStructure{Sections: make(map[string]string, len(SectionKeys))}
	for _, key := range SectionKeys {
		d.Sections[key] = ""
	}
	return d
}

// Normalize ensures the draft carries exactly the canonical key set.
// Missing keys are added empty; keys outside the canonical set are removed.
func (d *DraftStructure) Normalize() {
	if d.Sections == nil {
		d.Sections = make(map[string]string, len(SectionKeys))
	}
	canonical := make(map[string]bool, len(SectionKeys))
	for _, key := range SectionKeys {
		canonical[key] = true
		if _, ok := d.Sections[key]; !ok {
			d.Sections[key] = ""
		}
	}
	for key := range d.Sections {
		if !canonical[key] {
			delete(d.Sections, key)
		}
	}
}

// Get returns the content of a section, empty string when absent
func (d *DraftStructure) Get(key string) string {
	if d == nil || d.Sections == nil {
		return ""
	}
	return d.Sections[key]
}

// Set stores content for a canonical section; unknown keys are ignored
func (d *DraftStructure) Set(key, content string) {
	for _, k := range SectionKeys {
		if k == key {
			if d.Sections == nil {
				d.Sections = make(map[string]string, len(SectionKeys))
			}
			d.Sections[key] = content
			return
		}
	}
}

// Completeness returns the fraction of canonical sections with content,
// as a 0-100 percentage
func (d *DraftStructure) Completeness() float64 {
	if d == nil {
		return 0
	}
	filled := 0
	for _, key := range SectionKeys {
		if d.Get(key) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(SectionKeys)) * 100.0
}
