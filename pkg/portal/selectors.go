package portal

import "github.com/entrhq/headliner/pkg/browser"

// editorPanel matches the drawer or lightbox the headline editor opens in.
const editorPanel = "//div[contains(@class,'resumeHeadlineEdit') or contains(@class,'profileEditDrawer') or contains(@class,'lightbox')]"

// lowerText and lowerClass fold ASCII case inside XPath 1.0 expressions.
const (
	lowerText  = "translate(normalize-space(.), 'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz')"
	lowerClass = "translate(@class,'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz')"
)

// Selectors holds every XPath the workflow uses. Each list is a fallback
// chain tried in order.
type Selectors struct {
	Overlays    []string `yaml:"overlays"`
	Email       []string `yaml:"email"`
	Password    []string `yaml:"password"`
	Submit      []string `yaml:"submit"`
	EditButton  []string `yaml:"edit_button"`
	EditorPanel string   `yaml:"editor_panel"`
	Field       []string `yaml:"field"`
	Save        []string `yaml:"save"`
}

// DefaultSelectors returns the locators for the current portal markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Overlays: []string{
			"//div[contains(@class,'lightbox')]//div[contains(@class,'crossLayer')]",
			"//div[contains(@class,'close') and contains(@class,'ltCont')]",
			"//button[contains(.,'Close') or contains(.,'Got it') or contains(.,'No, thanks') or contains(.,'Cancel')]",
			"//span[contains(.,'CrossLayer')]",
		},
		Email: []string{
			"//input[contains(@placeholder,'Email') or contains(@placeholder,'email')]",
			"//input[contains(@name,'email')]",
		},
		Password: []string{
			"//input[@type='password']",
			"//input[contains(@name,'password')]",
		},
		Submit: []string{
			"//button[@type='submit']",
			"//button[contains(.,'Login') or contains(.,'Sign in')]",
		},
		EditButton: []string{
			"(//*[self::h2 or self::div or self::span][contains(" + lowerText + ",'resume headline')])[1]" +
				"/ancestor::*[self::section or self::div][1]" +
				"//*[self::a or self::button or self::span][contains(" + lowerText + ",'edit')][1]",
			"//div[contains(" + lowerClass + ",'resume') and contains(" + lowerClass + ",'headline')]" +
				"//*[contains(" + lowerClass + ",'edit')][1]",
			"(//button[contains(.,'Edit')] | //a[contains(.,'Edit')] | //span[contains(.,'Edit')])[1]",
		},
		EditorPanel: editorPanel,
		Field: []string{
			"(" + editorPanel + "//textarea)[1]",
			"(//textarea[contains(@placeholder,'headline') or contains(@id,'headline') or contains(@name,'headline')])[1]",
			"(//div[(@contenteditable='true' or contains(@role,'textbox')) and ancestor::div[contains(@class,'resumeHeadlineEdit') or contains(@class,'profileEditDrawer') or contains(@class,'lightbox')]])[1]",
		},
		Save: []string{
			"(" + editorPanel + "//button[normalize-space()='Save'])[1]",
			"(//button[contains(.,'Save')])[1]",
			"(//a[contains(.,'Save')])[1]",
		},
	}
}

// Chain names, also used as keys in Result.Locators.
const (
	ChainEmail      = "email"
	ChainPassword   = "password"
	ChainSubmit     = "submit"
	ChainEditButton = "edit button"
	ChainField      = "headline field"
	ChainSave       = "save button"
)

// Chains returns each selector list as a named browser.Chain.
func (s Selectors) Chains() map[string]browser.Chain {
	return map[string]browser.Chain{
		ChainEmail:      {Name: ChainEmail, XPaths: s.Email},
		ChainPassword:   {Name: ChainPassword, XPaths: s.Password},
		ChainSubmit:     {Name: ChainSubmit, XPaths: s.Submit},
		ChainEditButton: {Name: ChainEditButton, XPaths: s.EditButton},
		ChainField:      {Name: ChainField, XPaths: s.Field},
		ChainSave:       {Name: ChainSave, XPaths: s.Save},
	}
}
