package errors

import (
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://raw.githubusercontent.com/robolectric/robolectric/master/SdkConfig.java", false},
		{"http with port", "http://127.0.0.1:8080/pkg", false},

		{"empty", "", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"no scheme", "example.com/file", true},
		{"no host", "https://", true},
		{"file scheme", "file:///etc/passwd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"release", "4.11.1", false},
		{"release candidate", "3.0-rc2", false},
		{"sdk style", "5.0.0_r2-robolectric-1", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"space", "3.0 rc2", true},
		{"newline", "3.0\n", true},
		{"null byte", "3.0\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVersion(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVersion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"robolectric", "org.robolectric:robolectric", false},
		{"android-all", "org.robolectric:android-all", false},

		{"empty", "", true},
		{"missing artifact", "org.robolectric", true},
		{"three parts", "org.robolectric:robolectric:4.11", true},
		{"spaces", "org robolectric:robolectric", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCoordinate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
