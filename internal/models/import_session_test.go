package models

import (
	"reflect"
	"testing"
)

func TestImportSession_Report(t *testing.T) {
	tests := []struct {
		name      string
		session   ImportSession
		want      ImportReport
		wantError bool
	}{
		{
			name: "completed run",
			session: ImportSession{
				Status: ImportStatusCompleted, TotalRows: 3, Succeeded: 2, FailedRows: 1,
				ErrorLines: `["Row 3: name and surname are required"]`,
			},
			want: ImportReport{Total: 3, Succeeded: 2, Failed: 1, Errors: []string{"Row 3: name and surname are required"}},
		},
		{
			name: "cancelled run",
			session: ImportSession{
				Status: ImportStatusCompleted, TotalRows: 1, Succeeded: 1,
				ErrorLines: "[]", ErrorMessage: ImportCancelledMessage,
			},
			want: ImportReport{Total: 1, Succeeded: 1, Errors: []string{}, Cancelled: true},
		},
		{
			name:    "failed session is not cancelled",
			session: ImportSession{Status: ImportStatusFailed, ErrorMessage: "workbook could not be read"},
			want:    ImportReport{Errors: []string{}},
		},
		{
			name: "corrupted error lines keep the totals",
			session: ImportSession{
				SessionCode: "IMPORT-BROKEN", Status: ImportStatusCompleted, TotalRows: 4, FailedRows: 4,
				ErrorLines: `["Row 2: x"`,
			},
			want:      ImportReport{Total: 4, Failed: 4, Errors: []string{}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.session.Report()
			if (err != nil) != tt.wantError {
				t.Fatalf("Report() error = %v, wantError %v", err, tt.wantError)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Report() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
