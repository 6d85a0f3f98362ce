package refs

import "strings"

const builtinRoot = "<builtin>/"

// Builtin returns the reference set the compiler ships with: the core
// library, the UnityEngine modules a behaviour script usually touches,
// the VRChat SDK and the UdonSharp attribute assembly.
func Builtin() []Assembly {
	return []Assembly{
		assembly("mscorlib",
			ns("System",
				"class Object", "class String",
				"struct Boolean", "struct Byte", "struct SByte", "struct Char",
				"struct Decimal", "struct Double", "struct Single",
				"struct Int16", "struct UInt16", "struct Int32", "struct UInt32",
				"struct Int64", "struct UInt64", "struct Void",
				"class Array", "class Type", "class Enum", "class ValueType",
				"class Attribute", "class Exception", "class Delegate",
				"struct DateTime", "struct TimeSpan", "struct Guid",
				"class Random", "static Math", "static Convert", "static Console",
				"struct Nullable`1", "delegate Action", "delegate Action`1", "delegate Func`1",
				"attribute ObsoleteAttribute", "attribute SerializableAttribute",
				"attribute NonSerializedAttribute", "attribute FlagsAttribute",
				"interface IDisposable", "interface IComparable",
			),
			ns("System.Collections",
				"interface IEnumerable", "interface IEnumerator", "class ArrayList", "class Hashtable",
			),
			ns("System.Collections.Generic",
				"class List`1", "class Dictionary`2", "class HashSet`1",
				"class Queue`1", "class Stack`1", "interface IEnumerable`1",
				"interface IList`1", "struct KeyValuePair`2",
			),
			ns("System.Text", "class StringBuilder"),
			ns("System.Runtime.CompilerServices", "static RuntimeHelpers"),
		),
		assembly("UnityEngine.CoreModule",
			ns("UnityEngine",
				"class Object", "class GameObject", "class Component", "class Transform",
				"class Behaviour", "class MonoBehaviour", "class ScriptableObject",
				"class Camera", "class Light", "class Renderer", "class MeshRenderer",
				"class Material", "class Texture", "class Texture2D", "class Mesh", "class Shader",
				"struct Vector2", "struct Vector3", "struct Vector4", "struct Vector2Int", "struct Vector3Int",
				"struct Quaternion", "struct Matrix4x4", "struct Color", "struct Color32",
				"struct Rect", "struct Bounds", "struct Ray", "struct LayerMask",
				"static Mathf", "static Debug", "static Time", "static Input",
				"static Application", "static PlayerPrefs", "static Screen",
				"enum KeyCode", "enum Space", "enum SendMessageOptions",
				"attribute SerializeField", "attribute HideInInspector",
				"attribute SerializePrivateVariables", "attribute HeaderAttribute",
				"attribute TooltipAttribute", "attribute RangeAttribute", "attribute SpaceAttribute",
				"attribute TextAreaAttribute", "attribute MultilineAttribute",
				"attribute RequireComponent", "attribute AddComponentMenu",
				"attribute ExecuteInEditMode", "attribute DisallowMultipleComponent",
			),
			ns("UnityEngine.Events", "class UnityEvent"),
		),
		assembly("UnityEngine.PhysicsModule",
			ns("UnityEngine",
				"class Rigidbody", "class Collider", "class BoxCollider", "class SphereCollider",
				"class CapsuleCollider", "class MeshCollider", "class Collision",
				"static Physics", "struct RaycastHit", "enum ForceMode", "enum QueryTriggerInteraction",
			),
		),
		assembly("UnityEngine.AudioModule",
			ns("UnityEngine", "class AudioSource", "class AudioClip"),
		),
		assembly("UnityEngine.AnimationModule",
			ns("UnityEngine", "class Animator", "class Animation", "class AnimationClip"),
		),
		assembly("UnityEngine.ParticleSystemModule",
			ns("UnityEngine", "class ParticleSystem"),
		),
		assembly("UnityEngine.UI",
			ns("UnityEngine.UI",
				"class Text", "class Image", "class RawImage", "class Button",
				"class Toggle", "class Slider", "class InputField", "class Scrollbar",
			),
		),
		assembly("Unity.TextMeshPro",
			ns("TMPro", "class TextMeshPro", "class TextMeshProUGUI", "class TMP_Text", "class TMP_InputField"),
		),
		assembly("VRC.Udon",
			ns("VRC.Udon", "class UdonBehaviour"),
			ns("VRC.Udon.Common.Interfaces",
				"enum NetworkEventTarget", "interface IUdonEventReceiver", "interface IUdonBehaviour",
			),
			ns("VRC.Udon.Common", "struct SerializationResult", "struct DeserializationResult"),
		),
		assembly("VRCSDKBase",
			ns("VRC.SDKBase",
				"class VRCPlayerApi", "static Networking", "static Utilities",
				"class VRC_Pickup", "class VRCStation", "class VRC_SceneDescriptor",
			),
			ns("VRC.SDK3.Components", "class VRCPickup", "class VRCObjectSync", "class VRCMirrorReflection"),
		),
		assembly("UdonSharp.Runtime",
			ns("UdonSharp",
				"class UdonSharpBehaviour", "enum UdonSyncMode", "enum BehaviourSyncMode",
				"attribute UdonSyncedAttribute", "attribute UdonBehaviourSyncModeAttribute",
				"attribute FieldChangeCallbackAttribute", "attribute RecursiveMethodAttribute",
				"attribute DefaultExecutionOrder",
			),
		),
	}
}

func assembly(name string, groups ...[]TypeDef) Assembly {
	a := Assembly{Name: name, Location: builtinRoot + name + ".dll"}
	for _, g := range groups {
		a.Types = append(a.Types, g...)
	}
	return a
}

// ns parses "kind Name" or "kind Name`N" entries; "static" means a static class.
func ns(namespace string, defs ...string) []TypeDef {
	out := make([]TypeDef, 0, len(defs))
	for _, d := range defs {
		kindText, name, ok := strings.Cut(d, " ")
		if !ok {
			panic("refs: malformed builtin entry " + d)
		}
		td := TypeDef{Namespace: namespace}
		if kindText == "static" {
			td.Kind, td.Static = KindClass, true
		} else {
			kind, known := ParseKind(kindText)
			if !known {
				panic("refs: unknown kind in builtin entry " + d)
			}
			td.Kind = kind
		}
		td.Name, td.Arity = SplitArity(name)
		out = append(out, td)
	}
	return out
}

// SplitArity splits a metadata name "List`1" into ("List", 1).
func SplitArity(name string) (string, int) {
	base, digits, ok := strings.Cut(name, "`")
	if !ok {
		return name, 0
	}
	n := 0
	for _, r := range digits {
		if r < '0' || r > '9' {
			return name, 0
		}
		n = n*10 + int(r-'0')
	}
	return base, n
}
