package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Operating Systems", "Operating Systems"},
		{"trims whitespace", "  Unit 3 Notes  ", "Unit 3 Notes"},
		{"strips tags", "<b>Exam</b> schedule", "Exam schedule"},
		{"strips script", `<script>alert("x")</script>Syllabus`, "Syllabus"},
		{"strips attributes", `<a href="https://example.com">link</a>`, "link"},
		{"empty", "", ""},
		{"only markup", "<img src=x onerror=alert(1)>", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Text(tc.in); got != tc.want {
				t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
