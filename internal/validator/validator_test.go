package validator

import "testing"

func TestIsImageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"empty allowed", "", true},
		{"png", "https://cdn.example.com/q/1.png", true},
		{"jpeg upper case", "HTTPS://CDN.EXAMPLE.COM/Q/1.JPEG", true},
		{"query string ignored", "https://cdn.example.com/q/1.webp?v=2", true},
		{"svg", "/assets/diagram.svg", true},
		{"pdf rejected", "https://cdn.example.com/doc.pdf", false},
		{"no extension", "https://cdn.example.com/image", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsImageURL(tt.url); got != tt.want {
				t.Errorf("IsImageURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestValidate_SaveAttemptRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		req     SaveAttemptRequest
		wantErr bool
	}{
		{
			name: "valid",
			req:  SaveAttemptRequest{QuizID: 1, Answers: map[uint]uint{1: 2}, TimeUsedSeconds: 30},
		},
		{
			name:    "missing quiz id",
			req:     SaveAttemptRequest{Answers: map[uint]uint{1: 2}},
			wantErr: true,
		},
		{
			name:    "missing answers",
			req:     SaveAttemptRequest{QuizID: 1},
			wantErr: true,
		},
		{
			name:    "negative time",
			req:     SaveAttemptRequest{QuizID: 1, Answers: map[uint]uint{1: 2}, TimeUsedSeconds: -1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.req)
			if (errs != nil) != tt.wantErr {
				t.Errorf("Validate() errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidate_QuizCreateRequest(t *testing.T) {
	v := New()

	valid := QuizCreateRequest{
		Title: "Basic algebra",
		Questions: []QuestionCreateRequest{
			{
				Text: "2+2?",
				AnswerOptions: []OptionCreateRequest{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
			},
		},
	}
	if errs := v.Validate(valid); errs != nil {
		t.Fatalf("valid request rejected: %v", errs)
	}

	oneOption := valid
	oneOption.Questions = []QuestionCreateRequest{
		{Text: "2+2?", AnswerOptions: []OptionCreateRequest{{Text: "4", IsCorrect: true}}},
	}
	if errs := v.Validate(oneOption); errs == nil {
		t.Error("question with a single option should fail validation")
	}

	badImage := "https://cdn.example.com/doc.pdf"
	withBadImage := valid
	withBadImage.Questions = []QuestionCreateRequest{
		{
			Text:     "see figure",
			ImageURL: &badImage,
			AnswerOptions: []OptionCreateRequest{
				{Text: "a"}, {Text: "b", IsCorrect: true},
			},
		},
	}
	if errs := v.Validate(withBadImage); errs == nil {
		t.Error("non-image URL should fail validation")
	}
}
