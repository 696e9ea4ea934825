package imagegen

import (
	"fmt"
	"strings"
)

// stylePrefixes maps style names to the descriptor text prepended to the
// user prompt before it is sent to the remote model. An unknown style
// leaves the prompt untouched.
var stylePrefixes = map[string]string{
	"realistic":    "Photorealistic, high quality, detailed: ",
	"artistic":     "Artistic, creative, stylized: ",
	"cartoon":      "Cartoon style, colorful, fun: ",
	"professional": "Professional, clean, modern: ",
}

// EnhancePrompt prepends the style descriptor for known styles. The raw
// prompt passes through unchanged for unrecognized styles, so callers can
// always persist the original user text separately.
func EnhancePrompt(prompt, style string) string {
	prefix, ok := stylePrefixes[style]
	if !ok {
		return prompt
	}
	return prefix + prompt
}

// CompanyInfo carries the business attributes embedded into ad prompts.
// It is a local type so the prompt builder does not depend on the storage
// layer's record shapes.
type CompanyInfo struct {
	Name             string
	Industry         string
	ProductService   string
	TargetAudience   string
	BrandDescription string
	Website          string
}

// adFormats maps ad type names to layout guidance for the model.
var adFormats = map[string]string{
	"banner": "wide banner format with space for text overlay",
	"square": "square social media format",
	"story":  "vertical story format for mobile viewing",
}

// BuildAdPrompt composes a full advertising prompt from a company profile,
// the requested ad type and style, and optional extra requirements.
//
// Every company attribute is embedded so the model has the complete brand
// context. Unknown ad types fall back to the banner layout guidance.
func BuildAdPrompt(company CompanyInfo, adType, style, customPrompt string) string {
	format, ok := adFormats[adType]
	if !ok {
		format = adFormats["banner"]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s advertisement image for %s, a company in the %s industry.\n",
		style, company.Name, company.Industry)
	fmt.Fprintf(&b, "Product/Service: %s\n", company.ProductService)
	fmt.Fprintf(&b, "Target audience: %s\n", company.TargetAudience)
	if company.BrandDescription != "" {
		fmt.Fprintf(&b, "Brand identity: %s\n", company.BrandDescription)
	}
	if company.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", company.Website)
	}
	fmt.Fprintf(&b, "Layout: %s.", format)

	if cp := strings.TrimSpace(customPrompt); cp != "" {
		fmt.Fprintf(&b, "\nAdditional requirements: %s", cp)
	}

	return b.String()
}
