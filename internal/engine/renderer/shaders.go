package renderer

// Positions go through uCombined; normals are rotated by uModel only,
// which is exact while the model scale stays uniform.
const meshVertexShader = `#version 410 core

in vec3 position;
in vec3 normal;

uniform mat4 uCombined;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	vNormal = (uModel * vec4(normal, 0.0)).xyz;
	gl_Position = uCombined * vec4(position, 1.0);
}
`

// Ambient plus a key light along uLight and a fill light from above.
const meshFragmentShader = `#version 410 core

in vec3 vNormal;

uniform vec3 uLight;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	float key = max(dot(n, normalize(uLight)), 0.0);
	float fill = max(dot(n, vec3(0.0, 1.0, 0.0)), 0.0);
	vec3 base = vec3(0.8, 0.7, 0.6);
	FragColor = vec4(base * (0.2 + key * 0.6 + fill * 0.3), 1.0);
}
`
