package audience

import "testing"

func TestParsePrivacyStatus(t *testing.T) {
	cases := []struct {
		in      string
		want    PrivacyStatus
		wantErr bool
	}{
		{"optedin", PrivacyOptedIn, false},
		{"optedout", PrivacyOptedOut, false},
		{"optunknown", PrivacyUnknown, false},
		{"OPTEDOUT", PrivacyOptedOut, false},
		{"  optedin  ", PrivacyOptedIn, false},
		{"", "", true},
		{"opted-out", "", true},
		{"yes", "", true},
	}

	for _, tc := range cases {
		got, err := ParsePrivacyStatus(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePrivacyStatus(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrivacyStatus(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePrivacyStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPrivacyStatusOrDefault(t *testing.T) {
	if got := PrivacyStatusOrDefault("optedout"); got != PrivacyOptedOut {
		t.Errorf("expected optedout, got %q", got)
	}
	if got := PrivacyStatusOrDefault("bogus"); got != DefaultPrivacyStatus {
		t.Errorf("expected default for bogus input, got %q", got)
	}
	if got := PrivacyStatusOrDefault(""); got != DefaultPrivacyStatus {
		t.Errorf("expected default for empty input, got %q", got)
	}
}
