package fetch

import (
	"strings"
	"testing"
)

const sampleHTML = `<html>
<head>
  <title>Example News</title>
  <style>body { color: red; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <form action="/search"><input type="text"></form>
  <div class="wrapper" id="main" onclick="track()">
    <a href="/article-1" class="headline" data-track="1">First headline</a>
    <span></span>
    <p style="font-size:12px">Some    teaser   text</p>
  </div>
  <iframe src="https://ads.example.com"></iframe>
  <video src="clip.mp4"></video>
</body>
</html>`

func TestClean_RemovesNonContentElements(t *testing.T) {
	cleaned, err := Clean(sampleHTML)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	for _, forbidden := range []string{"<script", "<style", "<form", "<input", "<iframe", "<video"} {
		if strings.Contains(cleaned, forbidden) {
			t.Errorf("Cleaned HTML should not contain %q", forbidden)
		}
	}
	if strings.Contains(cleaned, "<span></span>") {
		t.Error("Empty tags should be removed")
	}
	if !strings.Contains(cleaned, "First headline") {
		t.Error("Visible text should survive cleaning")
	}
}

func TestClean_KeepsOnlyAnchorHref(t *testing.T) {
	cleaned, err := Clean(sampleHTML)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	if !strings.Contains(cleaned, `href="/article-1"`) {
		t.Error("Anchor href should be preserved")
	}
	for _, forbidden := range []string{"class=", "id=", "onclick=", "data-track=", "style="} {
		if strings.Contains(cleaned, forbidden) {
			t.Errorf("Attribute %q should be stripped", forbidden)
		}
	}
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	cleaned, err := Clean(sampleHTML)
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if strings.Contains(cleaned, "\n") {
		t.Error("Newlines should be collapsed")
	}
	if strings.Contains(cleaned, "Some    teaser") {
		t.Error("Runs of spaces should be collapsed")
	}
}

func TestClean_Idempotent(t *testing.T) {
	once, err := Clean(sampleHTML)
	if err != nil {
		t.Fatalf("First clean failed: %v", err)
	}
	twice, err := Clean(once)
	if err != nil {
		t.Fatalf("Second clean failed: %v", err)
	}
	if once != twice {
		t.Error("Clean should be idempotent: clean(clean(html)) == clean(html)")
	}
}
