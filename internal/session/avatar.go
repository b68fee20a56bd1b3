package session

// avatars per gender, in the order the picker shows them.
var avatars = map[Gender][]Avatar{
	GenderMale: {
		{ID: "avatar-m1", Path: "images/avatars/masculino/1.png", Emoji: "🧒🏻"},
		{ID: "avatar-m2", Path: "images/avatars/masculino/2.png", Emoji: "👨🏿‍🦱"},
		{ID: "avatar-m3", Path: "images/avatars/masculino/3.png", Emoji: "🧑🏼‍🦰"},
		{ID: "avatar-m4", Path: "images/avatars/masculino/4.png", Emoji: "🧔🏾‍♂️"},
		{ID: "avatar-m5", Path: "images/avatars/masculino/5.png", Emoji: "👦🏻"},
		{ID: "avatar-m6", Path: "images/avatars/masculino/6.png", Emoji: "👨🏽"},
		{ID: "avatar-m7", Path: "images/avatars/masculino/7.png", Emoji: "🧔🏽"},
		{ID: "avatar-m8", Path: "images/avatars/masculino/8.png", Emoji: "👨🏻"},
	},
	GenderFemale: {
		{ID: "avatar-f1", Path: "images/avatars/femenino/1.png", Emoji: "👧🏻"},
		{ID: "avatar-f2", Path: "images/avatars/femenino/2.png", Emoji: "👩🏼"},
		{ID: "avatar-f3", Path: "images/avatars/femenino/3.png", Emoji: "👩🏿‍🦱"},
		{ID: "avatar-f4", Path: "images/avatars/femenino/4.png", Emoji: "👩🏽"},
		{ID: "avatar-f5", Path: "images/avatars/femenino/5.png", Emoji: "👩🏼‍🦰"},
		{ID: "avatar-f6", Path: "images/avatars/femenino/6.png", Emoji: "👧🏾"},
	},
	GenderUnspecified: {
		{ID: "avatar-neutro", Path: "images/avatars/pnd/n1.png", Emoji: "🧑🏽"},
		{ID: "avatar-neutro2", Path: "images/avatars/pnd/n2.png", Emoji: "🧑🏽‍🦰"},
		{ID: "avatar-neutro3", Path: "images/avatars/pnd/n3.png", Emoji: "🧑🏾‍🦱"},
		{ID: "avatar-neutro4", Path: "images/avatars/pnd/n4.png", Emoji: "👱🏼"},
		{ID: "avatar-neutro5", Path: "images/avatars/pnd/n5.png", Emoji: "🧑🏻‍🦲"},
		{ID: "avatar-neutro6", Path: "images/avatars/pnd/n6.png", Emoji: "🧑🏼‍🦰"},
		{ID: "avatar-neutro7", Path: "images/avatars/pnd/n7.png", Emoji: "🧓🏼"},
		{ID: "avatar-neutro8", Path: "images/avatars/pnd/n8.png", Emoji: "👱🏽"},
	},
}

// AvatarsFor returns the avatars offered to a student of gender g.
func AvatarsFor(g Gender) []Avatar {
	list := avatars[g]
	out := make([]Avatar, len(list))
	copy(out, list)
	return out
}

// FindAvatar looks up an avatar by id within the gender's set.
func FindAvatar(g Gender, id string) (Avatar, bool) {
	for _, a := range avatars[g] {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}
