package charmodel

import "strings"

// Canonical skeleton bone names. Game bone data is keyed by these; model
// rigs from other toolchains are mapped onto them by NormalizeBoneName.
const (
	BonePelvis    = "pelvis"
	BoneSpine1    = "spine_1"
	BoneSpine2    = "spine_2"
	BoneSpine3    = "spine_3"
	BoneNeck      = "neck_0"
	BoneHead      = "head_0"
	BoneArmUpperL = "arm_upper_L"
	BoneArmLowerL = "arm_lower_L"
	BoneHandL     = "hand_L"
	BoneArmUpperR = "arm_upper_R"
	BoneArmLowerR = "arm_lower_R"
	BoneHandR     = "hand_R"
	BoneLegUpperL = "leg_upper_L"
	BoneLegLowerL = "leg_lower_L"
	BoneAnkleL    = "ankle_L"
	BoneLegUpperR = "leg_upper_R"
	BoneLegLowerR = "leg_lower_R"
	BoneAnkleR    = "ankle_R"
)

// boneAliases maps rig-specific names, after lowercasing and prefix
// stripping, to the canonical skeleton. Covers Mixamo, Rigify, Source and a
// few asset-pack conventions.
var boneAliases = map[string]string{
	"hips": BonePelvis, "pelvis": BonePelvis, "root": BonePelvis,

	"spine": BoneSpine1, "spine1": BoneSpine1, "spine_01": BoneSpine1,
	"spine_1": BoneSpine1, "spine01": BoneSpine1,
	"spine2": BoneSpine2, "spine_02": BoneSpine2, "spine_2": BoneSpine2,
	"spine02": BoneSpine2,
	"spine3": BoneSpine3, "spine_03": BoneSpine3, "spine_3": BoneSpine3,
	"spine03": BoneSpine3,

	"neck": BoneNeck, "neck1": BoneNeck, "neck_01": BoneNeck,
	"neck_1": BoneNeck, "neck01": BoneNeck,
	"head": BoneHead, "head1": BoneHead, "head_01": BoneHead,
	"head_1": BoneHead, "head01": BoneHead,

	"leftarm": BoneArmUpperL, "l_upperarm": BoneArmUpperL, "upperarm_l": BoneArmUpperL,
	"l_arm": BoneArmUpperL, "arm_l": BoneArmUpperL, "left_arm": BoneArmUpperL,
	"l_upper_arm": BoneArmUpperL, "upper_arm_l": BoneArmUpperL, "left_upper_arm": BoneArmUpperL,
	"shoulder_l": BoneArmUpperL, "l_shoulder": BoneArmUpperL, "arm_upper_l": BoneArmUpperL,

	"leftforearm": BoneArmLowerL, "l_forearm": BoneArmLowerL, "forearm_l": BoneArmLowerL,
	"l_fore_arm": BoneArmLowerL, "fore_arm_l": BoneArmLowerL, "left_fore_arm": BoneArmLowerL,
	"l_lowerarm": BoneArmLowerL, "lowerarm_l": BoneArmLowerL, "arm_lower_l": BoneArmLowerL,

	"lefthand": BoneHandL, "l_hand": BoneHandL, "hand_l": BoneHandL, "left_hand": BoneHandL,

	"rightarm": BoneArmUpperR, "r_upperarm": BoneArmUpperR, "upperarm_r": BoneArmUpperR,
	"r_arm": BoneArmUpperR, "arm_r": BoneArmUpperR, "right_arm": BoneArmUpperR,
	"r_upper_arm": BoneArmUpperR, "upper_arm_r": BoneArmUpperR, "right_upper_arm": BoneArmUpperR,
	"shoulder_r": BoneArmUpperR, "r_shoulder": BoneArmUpperR, "arm_upper_r": BoneArmUpperR,

	"rightforearm": BoneArmLowerR, "r_forearm": BoneArmLowerR, "forearm_r": BoneArmLowerR,
	"r_fore_arm": BoneArmLowerR, "fore_arm_r": BoneArmLowerR, "right_fore_arm": BoneArmLowerR,
	"r_lowerarm": BoneArmLowerR, "lowerarm_r": BoneArmLowerR, "arm_lower_r": BoneArmLowerR,

	"righthand": BoneHandR, "r_hand": BoneHandR, "hand_r": BoneHandR, "right_hand": BoneHandR,

	"leftupleg": BoneLegUpperL, "l_thigh": BoneLegUpperL, "thigh_l": BoneLegUpperL,
	"l_up_leg": BoneLegUpperL, "up_leg_l": BoneLegUpperL, "left_up_leg": BoneLegUpperL,
	"upleg_l": BoneLegUpperL, "l_upleg": BoneLegUpperL,
	"left_thigh": BoneLegUpperL, "l_upper_leg": BoneLegUpperL, "upper_leg_l": BoneLegUpperL,
	"leg_upper_l": BoneLegUpperL,

	"leftleg": BoneLegLowerL, "l_calf": BoneLegLowerL, "calf_l": BoneLegLowerL,
	"l_shin": BoneLegLowerL, "shin_l": BoneLegLowerL, "left_shin": BoneLegLowerL,
	"left_calf": BoneLegLowerL, "l_leg": BoneLegLowerL, "leg_l": BoneLegLowerL,
	"left_leg": BoneLegLowerL, "leg_lower_l": BoneLegLowerL,

	"leftfoot": BoneAnkleL, "l_foot": BoneAnkleL, "foot_l": BoneAnkleL,
	"left_foot": BoneAnkleL, "ankle_l": BoneAnkleL,

	"rightupleg": BoneLegUpperR, "r_thigh": BoneLegUpperR, "thigh_r": BoneLegUpperR,
	"r_up_leg": BoneLegUpperR, "up_leg_r": BoneLegUpperR, "right_up_leg": BoneLegUpperR,
	"upleg_r": BoneLegUpperR, "r_upleg": BoneLegUpperR,
	"right_thigh": BoneLegUpperR, "r_upper_leg": BoneLegUpperR, "upper_leg_r": BoneLegUpperR,
	"leg_upper_r": BoneLegUpperR,

	"rightleg": BoneLegLowerR, "r_calf": BoneLegLowerR, "calf_r": BoneLegLowerR,
	"r_shin": BoneLegLowerR, "shin_r": BoneLegLowerR, "right_shin": BoneLegLowerR,
	"right_calf": BoneLegLowerR, "r_leg": BoneLegLowerR, "leg_r": BoneLegLowerR,
	"right_leg": BoneLegLowerR, "leg_lower_r": BoneLegLowerR,

	"rightfoot": BoneAnkleR, "r_foot": BoneAnkleR, "foot_r": BoneAnkleR,
	"right_foot": BoneAnkleR, "ankle_r": BoneAnkleR,
}

var bonePrefixes = []string{"mixamorig:", "valvebiped_", "bip01_"}

// NormalizeBoneName maps a model rig's bone name onto the canonical
// skeleton: lowercase, dots and spaces to underscores, known rig prefixes
// stripped, then the alias table. Unrecognized names pass through in their
// cleaned form.
func NormalizeBoneName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// Prefixes stack: Source rigs carry both valvebiped_ and bip01_.
	for _, prefix := range bonePrefixes {
		s = strings.TrimPrefix(s, prefix)
	}
	if canonical, ok := boneAliases[s]; ok {
		return canonical
	}
	return s
}
