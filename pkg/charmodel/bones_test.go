package charmodel

import "testing"

func TestNormalizeBoneName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hips", "pelvis"},
		{"pelvis", "pelvis"},
		{"ROOT", "pelvis"},
		{"mixamorig:Hips", "pelvis"},
		{"mixamorig:LeftArm", "arm_upper_L"},
		{"ValveBiped.Bip01_Pelvis", "pelvis"},
		{"Bip01_Spine1", "spine_1"},
		{"Spine", "spine_1"},
		{"spine.02", "spine_2"},
		{"Spine 3", "spine_3"},
		{"Neck", "neck_0"},
		{"Head", "head_0"},
		{"LeftForeArm", "arm_lower_L"},
		{"upperarm_r", "arm_upper_R"},
		{"RightHand", "hand_R"},
		{"LeftUpLeg", "leg_upper_L"},
		{"calf_r", "leg_lower_R"},
		{"LeftFoot", "ankle_L"},
		{"ankle_r", "ankle_R"},
		// Unknown names pass through cleaned.
		{"Tail.01", "tail_01"},
		{"prop_bone", "prop_bone"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizeBoneName(tc.in); got != tc.want {
				t.Errorf("NormalizeBoneName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
