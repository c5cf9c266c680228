// Package validator checks field-level conformance of received Hermes
// messages: mandatory presence, regex/enum validity, and soft-bound
// warnings that never fail a scenario on their own (spec §4.F).
package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
)

var (
	versionPattern = regexp.MustCompile(`^[1-9][0-9]{0,2}\.[0-9]{1,3}$`)
	boardIDPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

// ServiceDescription checks a received ServiceDescription message.
// expectedLaneId, when non-empty, is compared against the received LaneId
// and a mismatch is reported as a warning, not a failure. It returns the
// Hermes version string and any non-fatal warnings.
func ServiceDescription(msg *message.Message, expectedLaneId string) (version string, warnings []string, err error) {
	v, ok := msg.Get("Version")
	if !ok {
		return "", nil, hermeserrors.NewValidationError("validator.ServiceDescription",
			fmt.Errorf("IPC-Hermes version is missing in ServiceDescription"))
	}
	if !versionPattern.MatchString(v) {
		return "", nil, hermeserrors.NewValidationError("validator.ServiceDescription",
			fmt.Errorf("IPC-Hermes version in ServiceDescription has not correct format xxx.yyy, found: %s", v))
	}

	machineId, ok := msg.Get("MachineId")
	if !ok {
		return "", nil, hermeserrors.NewValidationError("validator.ServiceDescription",
			fmt.Errorf("MachineId is missing in ServiceDescription"))
	}
	if strings.TrimSpace(machineId) == "" {
		warnings = append(warnings, "MachineId in ServiceDescription is an empty string")
	}

	laneId, ok := msg.Get("LaneId")
	if !ok {
		return "", nil, hermeserrors.NewValidationError("validator.ServiceDescription",
			fmt.Errorf("LaneId is missing in ServiceDescription"))
	}
	laneNum, convErr := strconv.Atoi(laneId)
	if convErr != nil || laneNum <= 0 {
		return "", nil, hermeserrors.NewValidationError("validator.ServiceDescription",
			fmt.Errorf("LaneId in ServiceDescription is not greater than zero, found: %s", laneId))
	}
	if expectedLaneId != "" && laneId != expectedLaneId {
		warnings = append(warnings, fmt.Sprintf(
			"received LaneId (%s) in ServiceDescription does not match configured lane (%s)", laneId, expectedLaneId))
	}
	return v, warnings, nil
}

// Notification checks a received Notification message against the
// expected code and severity. A severity mismatch is a warning, not a
// failure; a code mismatch fails.
func Notification(msg *message.Message, expectedCode message.NotificationCode, expectedSeverity message.SeverityType) (warnings []string, err error) {
	code, err := mandatoryEnum(msg, "NotificationCode", func(v int) bool { return message.NotificationCode(v).IsValid() })
	if err != nil {
		return nil, err
	}
	if message.NotificationCode(code) != expectedCode {
		return nil, hermeserrors.NewValidationError("validator.Notification",
			fmt.Errorf("NotificationCode should be %d, found %d", expectedCode, code))
	}

	severity, err := mandatoryEnum(msg, "Severity", func(v int) bool { return message.SeverityType(v).IsValid() })
	if err != nil {
		return nil, err
	}
	if message.SeverityType(severity) != expectedSeverity {
		warnings = append(warnings, fmt.Sprintf(
			"Notification recommends Severity %d, received %d", expectedSeverity, severity))
	}
	return warnings, nil
}

// BoardInfo checks the board-description attributes shared by
// BoardAvailable, BoardForecast, and a populated MachineReady.
func BoardInfo(msg *message.Message) (warnings []string, err error) {
	boardId, ok := msg.Get("BoardId")
	if !ok {
		return nil, hermeserrors.NewValidationError("validator.BoardInfo",
			fmt.Errorf("mandatory BoardId is missing"))
	}
	if !boardIDPattern.MatchString(boardId) {
		return nil, hermeserrors.NewValidationError("validator.BoardInfo",
			fmt.Errorf("BoardId has not correct GUID format xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx, found: %s", boardId))
	}

	createdBy, ok := msg.Get("BoardIdCreatedBy")
	if !ok {
		return nil, hermeserrors.NewValidationError("validator.BoardInfo",
			fmt.Errorf("mandatory BoardIdCreatedBy is missing"))
	}
	if strings.TrimSpace(createdBy) == "" {
		return nil, hermeserrors.NewValidationError("validator.BoardInfo",
			fmt.Errorf("BoardIdCreatedBy is present but empty"))
	}

	if _, err := mandatoryEnum(msg, "FailedBoard", func(v int) bool { return message.BoardQuality(v).IsValid() }); err != nil {
		return nil, err
	}
	if _, err := mandatoryEnum(msg, "FlippedBoard", func(v int) bool { return message.FlippedBoard(v).IsValid() }); err != nil {
		return nil, err
	}

	warnings = append(warnings, barcodeWarnings(msg, "TopBarcode")...)
	warnings = append(warnings, barcodeWarnings(msg, "BottomBarcode")...)

	for _, f := range []floatField{
		{"Length", 2, 2000},
		{"Width", 2, 2000},
		{"Thickness", 0.1, 100},
		{"ConveyorSpeed", 6, 600},
		{"TopClearanceHeight", 0, 100},
		{"BottomClearanceHeight", 0, 100},
		{"Weight", 1, 10000},
	} {
		w, err := floatWarnings(msg, f)
		if err != nil {
			return nil, err
		}
		warnings = append(warnings, w...)
	}
	return warnings, nil
}

// mandatoryEnum reads field as an integer and checks it against isValid, the
// enum type's own membership predicate (spec §4.F "a valid enum"; the
// original's `_validate_mandatory_enum` rejects an int that doesn't resolve
// to a member of the enum, not merely a non-integer string).
func mandatoryEnum(msg *message.Message, field string, isValid func(int) bool) (int, error) {
	v, ok := msg.Get(field)
	if !ok {
		return 0, hermeserrors.NewValidationError("validator.mandatoryEnum",
			fmt.Errorf("mandatory %s is missing in %s", field, msg.Tag))
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, hermeserrors.NewValidationError("validator.mandatoryEnum",
			fmt.Errorf("%s enum value in %s is not an integer, found: %s", field, msg.Tag, v))
	}
	if !isValid(n) {
		return 0, hermeserrors.NewValidationError("validator.mandatoryEnum",
			fmt.Errorf("%s value in %s is not a valid enum member, found: %s", field, msg.Tag, v))
	}
	return n, nil
}

func barcodeWarnings(msg *message.Message, field string) []string {
	barcode, ok := msg.Get(field)
	if !ok {
		return nil
	}
	var warnings []string
	if strings.TrimSpace(barcode) == "" {
		warnings = append(warnings, fmt.Sprintf("barcode %s is an empty string", field))
	}
	if strings.Contains(strings.ToLower(barcode), "error") {
		warnings = append(warnings, fmt.Sprintf("barcode %s contains the text \"error\"", field))
	}
	return warnings
}

type floatField struct {
	name       string
	minWarning float64
	maxWarning float64
}

func floatWarnings(msg *message.Message, f floatField) ([]string, error) {
	raw, ok := msg.Get(f.name)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil, hermeserrors.NewValidationError("validator.floatWarnings",
			fmt.Errorf("%s is not a positive float, found: %s", f.name, raw))
	}

	var warnings []string
	if decimals := decimalPlaces(raw); decimals > 2 {
		warnings = append(warnings, fmt.Sprintf("%s has more than 2 decimal places", f.name))
	}
	if v < f.minWarning {
		warnings = append(warnings, fmt.Sprintf("%s is smaller than %g, found: %g", f.name, f.minWarning, v))
	}
	if v > f.maxWarning {
		warnings = append(warnings, fmt.Sprintf("%s is larger than %g, found: %g", f.name, f.maxWarning, v))
	}
	return warnings, nil
}

func decimalPlaces(raw string) int {
	parts := strings.SplitN(raw, ".", 2)
	if len(parts) < 2 {
		return 0
	}
	return len(parts[1])
}
